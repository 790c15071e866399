package factor

import (
	"io"

	"github.com/YuminosukeSato/pricefactor/core/model"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// Save writes the state to w as a gob blob.
func (s *State) Save(w io.Writer) error {
	return model.SaveModelToWriter(s, w)
}

// SaveFile writes the state to path.
func (s *State) SaveFile(path string) error {
	return model.SaveModel(s, path)
}

// LoadState reads a blob written by Save. A blob that does not decode, or
// decodes into a state violating its invariants, yields a
// *errors.SerializationError and no state.
func LoadState(r io.Reader) (*State, error) {
	var s State
	if err := model.LoadModelFromReader(&s, r); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, errors.NewSerializationError("LoadState", err)
	}
	return &s, nil
}

// LoadFile reads a blob written by SaveFile.
func LoadFile(path string) (*State, error) {
	var s State
	if err := model.LoadModel(&s, path); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, errors.NewSerializationError("LoadFile", err)
	}
	return &s, nil
}

// Save writes the published state to w. It fails with errors.ErrNotFitted on
// an unfitted model.
func (m *Model) Save(w io.Writer) error {
	if err := m.status.RequireFitted(); err != nil {
		return err
	}
	return m.State().Save(w)
}

// SaveFile writes the published state to path.
func (m *Model) SaveFile(path string) error {
	if err := m.status.RequireFitted(); err != nil {
		return err
	}
	return m.State().SaveFile(path)
}
