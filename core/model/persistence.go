package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// SaveModel はモデルをファイルに保存する
//
// パラメータ:
//   - model: 保存する値（gobでエンコード可能な構造体）
//   - filename: 保存先のファイルパス
//
// 失敗した場合は *errors.SerializationError を返す。
//
// 使用例:
//
//	err := model.SaveModel(state, "model.gob")
func SaveModel(model interface{}, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.NewSerializationError("SaveModel", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.NewSerializationError("SaveModel", cerr)
		}
	}()

	return SaveModelToWriter(model, file)
}

// LoadModel はファイルからモデルを読み込む
//
// パラメータ:
//   - model: 読み込み先（ポインタ）
//   - filename: 読み込み元のファイルパス
//
// 使用例:
//
//	var state factor.State
//	err := model.LoadModel(&state, "model.gob")
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.NewSerializationError("LoadModel", err)
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter はモデルをio.Writerに保存する
func SaveModelToWriter(model interface{}, w io.Writer) error {
	encoder := gob.NewEncoder(w)
	if err := encoder.Encode(model); err != nil {
		return errors.NewSerializationError("SaveModelToWriter", err)
	}
	return nil
}

// LoadModelFromReader はio.Readerからモデルを読み込む
//
// デコードに失敗した場合、modelの内容は不定なので呼び出し側で破棄すること。
func LoadModelFromReader(model interface{}, r io.Reader) error {
	decoder := gob.NewDecoder(r)
	if err := decoder.Decode(model); err != nil {
		return errors.NewSerializationError("LoadModelFromReader", err)
	}
	return nil
}
