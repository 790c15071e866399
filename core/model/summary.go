package model

import (
	"github.com/goccy/go-json"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// ModelSummary はモデルの要約を表す構造体（inspectコマンドとAPI用）
type ModelSummary struct {
	// ModelType はモデルの種類
	ModelType string `json:"model_type"`

	// Version は要約フォーマットのバージョン
	Version string `json:"version"`

	// EstimatorID はモデルインスタンスの識別子
	EstimatorID string `json:"estimator_id,omitempty"`

	// GlobalMean は学習データの平均レーティング
	GlobalMean float64 `json:"global_mean"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Counts はユーザー数・商品数などの件数
	Counts map[string]int `json:"counts,omitempty"`

	// Metadata は追加のメタデータ（学習時の損失等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelSummaryをJSON形式にシリアライズ
func (ms *ModelSummary) ToJSON() ([]byte, error) {
	return json.MarshalIndent(ms, "", "  ")
}

// FromJSON はJSON形式からModelSummaryをデシリアライズ
func (ms *ModelSummary) FromJSON(data []byte) error {
	return json.Unmarshal(data, ms)
}

// Validate はModelSummaryの妥当性を検証
func (ms *ModelSummary) Validate() error {
	if ms.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", ms.ModelType)
	}

	if ms.Version == "" {
		return errors.NewValidationError("version", "is required", ms.Version)
	}

	if !ms.IsFitted && ms.Counts["users"] > 0 {
		return errors.NewValidationError("counts.users", "unfitted model should not have users", ms.Counts["users"])
	}

	return nil
}

// Clone はModelSummaryのディープコピーを作成
func (ms *ModelSummary) Clone() *ModelSummary {
	clone := &ModelSummary{
		ModelType:       ms.ModelType,
		Version:         ms.Version,
		EstimatorID:     ms.EstimatorID,
		GlobalMean:      ms.GlobalMean,
		IsFitted:        ms.IsFitted,
		Hyperparameters: make(map[string]interface{}, len(ms.Hyperparameters)),
		Counts:          make(map[string]int, len(ms.Counts)),
		Metadata:        make(map[string]interface{}, len(ms.Metadata)),
	}

	for k, v := range ms.Hyperparameters {
		clone.Hyperparameters[k] = v
	}

	for k, v := range ms.Counts {
		clone.Counts[k] = v
	}

	for k, v := range ms.Metadata {
		clone.Metadata[k] = v
	}

	return clone
}
