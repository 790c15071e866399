// Package model はレーティング推定器の共通インターフェースと、
// 学習状態の管理・要約・永続化のための部品を提供します。
package model

import (
	"context"

	"github.com/YuminosukeSato/pricefactor/dataset"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを学習テーブルで学習させる
	Fit(ctx context.Context, table dataset.Table) error
}

// RatingPredictor はレーティングを推定するモデルのインターフェース
//
// Predict は決して失敗しない。未知のユーザー・商品・時刻は中立値として扱う。
type RatingPredictor interface {
	Predict(userID, itemID, timestamp string) float64
}

// Summarizer は学習結果の要約を返すモデルのインターフェース
type Summarizer interface {
	Summary() ModelSummary
}

// Estimator は学習・推定・要約をまとめたインターフェース
type Estimator interface {
	Fitter
	RatingPredictor
	Summarizer
}
