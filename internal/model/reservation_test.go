package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskForViewer(t *testing.T) {
	res := Reservation{
		ID:            "r1",
		Anonymous:     true,
		UserEmail:     "ana@dlsu.edu.ph",
		UserStudentID: "12190001",
		UserName:      "Ana Cruz",
	}

	owner := res.MaskForViewer("ana@dlsu.edu.ph")
	assert.Equal(t, "ana@dlsu.edu.ph", owner.UserEmail)
	assert.Equal(t, "Ana Cruz", owner.UserName)

	// Any other viewer, technicians included, sees the mask.
	other := res.MaskForViewer("tech@dlsu.edu.ph")
	assert.Empty(t, other.UserEmail)
	assert.Empty(t, other.UserStudentID)
	assert.Equal(t, AnonymousDisplayName, other.UserName)

	res.Anonymous = false
	public := res.MaskForViewer("tech@dlsu.edu.ph")
	assert.Equal(t, "ana@dlsu.edu.ph", public.UserEmail)
}
