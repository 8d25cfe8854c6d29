package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject_DefaultsColor(t *testing.T) {
	p, err := NewProject(ProjectInput{Name: "  Garden  "})
	require.NoError(t, err)
	assert.Equal(t, "Garden", p.Name)
	assert.Equal(t, DefaultProjectColor, p.Color)
}

func TestNewProject_KeepsColor(t *testing.T) {
	p, err := NewProject(ProjectInput{Name: "Garden", Color: "#ff8800", Icon: "leaf"})
	require.NoError(t, err)
	assert.Equal(t, "#ff8800", p.Color)
	assert.Equal(t, "leaf", p.Icon)
}

func TestNewProject_NameTooShort(t *testing.T) {
	_, err := NewProject(ProjectInput{Name: " ab "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "project", verr.Entity)
	assert.Contains(t, verr.Problems[0], "name")
}

func TestNewProject_BadColor(t *testing.T) {
	_, err := NewProject(ProjectInput{Name: "Garden", Color: "green"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hex color")
}

func TestNewCurrency(t *testing.T) {
	c, err := NewCurrency(CurrencyInput{Code: "ars", Name: " Peso Argentino ", Symbol: "ARS$"})
	require.NoError(t, err)
	assert.Equal(t, "ARS", c.Code)
	assert.Equal(t, "Peso Argentino", c.Name)

	_, err = NewCurrency(CurrencyInput{Code: "ARS", Name: "Peso", Symbol: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol is required")
}

func TestErrorTaxonomy(t *testing.T) {
	assert.True(t, errors.Is(&NotFoundError{Entity: "task", ID: 5}, ErrNotFound))
	assert.True(t, errors.Is(&InvariantViolation{Reason: "x"}, ErrInvariant))
	assert.False(t, errors.Is(&InvariantViolation{Reason: "x"}, ErrValidation))
	assert.Equal(t, "task 5: not found", (&NotFoundError{Entity: "task", ID: 5}).Error())
	assert.NoError(t, NewValidationError("task").Err())
}
