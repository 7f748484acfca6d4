package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileConflictError(t *testing.T) {
	err := &FileConflictError{Path: "model/bike_to.go", First: "BikeTO", Second: "BikeTo"}
	assert.Equal(t, "gqlcodegen: types BikeTO and BikeTo both generate model/bike_to.go", err.Error())
	assert.True(t, errors.Is(err, ErrFileConflict))
	assert.False(t, errors.Is(err, errors.New("other")))
}
