package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizhub/internal/model"
)

func TestDefaultSeedIsValid(t *testing.T) {
	var seedUsers []SeedUser
	require.NoError(t, json.Unmarshal(defaultSeed, &seedUsers))
	require.NotEmpty(t, seedUsers)

	emails := map[string]bool{}
	for _, su := range seedUsers {
		assert.NotEmpty(t, su.Password, su.Email)
		assert.False(t, emails[su.Email], "duplicate email %s", su.Email)
		emails[su.Email] = true

		for _, q := range su.Questions {
			assert.Len(t, q.Alternatives, model.AlternativesPerQuestion, q.Description)
			assert.Equal(t, 1, model.CountCorrect(q.Alternatives), q.Description)
		}
	}
}
