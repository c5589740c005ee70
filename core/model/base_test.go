package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseEstimatorState(t *testing.T) {
	var e BaseEstimator
	assert.False(t, e.IsFitted())
	assert.False(t, CheckFitted(&e))

	e.SetFitted()
	assert.True(t, e.IsFitted())
	assert.True(t, CheckFitted(&e))

	e.Reset()
	assert.False(t, e.IsFitted())
}

func TestCheckFittedWithoutState(t *testing.T) {
	assert.True(t, CheckFitted(struct{}{}))
}
