package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestReturnsFreshInstance(t *testing.T) {
	template := &CreateSuperheroRequest{Nickname: "leftover"}

	first := newRequest(template)
	second := newRequest(template)

	assert.NotSame(t, template, first)
	assert.NotSame(t, first, second)
	assert.Empty(t, first.Nickname)
}

func TestUpdateRequestToPatch(t *testing.T) {
	nickname := "Kal-El"
	powers := []string{"flight"}
	req := &UpdateSuperheroRequest{ID: "64b8f0c8e4d3b2a1f0a12345", Nickname: &nickname, Superpowers: &powers}

	patch := req.toPatch()
	assert.Equal(t, &nickname, patch.Nickname)
	assert.Equal(t, &powers, patch.Superpowers)
	assert.Nil(t, patch.RealName)
	assert.Nil(t, patch.Images)
}

func TestCreateRequestValidate(t *testing.T) {
	valid := &CreateSuperheroRequest{
		Nickname: "Superman",
		RealName: "Clark Kent",
		Images:   []string{"https://example.com/a.jpg", "http://example.com/b.png"},
	}
	assert.NoError(t, valid.Validate())

	invalid := &CreateSuperheroRequest{Nickname: "Superman", RealName: "Clark Kent", Images: []string{"example.com/a.jpg"}}
	assert.Error(t, invalid.Validate())
}
