package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/farmer/internal/model"
)

func TestParseEnvelope(t *testing.T) {
	tests := map[string]struct {
		data    string
		expCode string
		expOK   bool
		expMsg  string
	}{
		"A success response should be returned as is.": {
			data:    `{"code":"0","totalEnergy":120}`,
			expCode: "0",
			expOK:   true,
		},
		"A rejected response should keep its code and message.": {
			data:    `{"code":"3","message":"not logged in"}`,
			expCode: "3",
			expMsg:  "not logged in",
		},
		"A numeric code should not be taken as a success.": {
			data:    `{"code":0}`,
			expCode: model.CodeTransport,
			expMsg:  "response code 0 is not a string",
		},
		"A JSON object without code should be marked as no code.": {
			data:    `{"result":{}}`,
			expCode: model.CodeNoCode,
		},
		"Invalid JSON should be marked as a transport failure.": {
			data:    `<html>busy</html>`,
			expCode: model.CodeTransport,
		},
		"An empty body should be marked as a transport failure.": {
			data:    ``,
			expCode: model.CodeTransport,
		},
		"A JSON array should be marked as no code.": {
			data:    `[1,2]`,
			expCode: model.CodeNoCode,
		},
		"A JSON null should be marked as no code.": {
			data:    `null`,
			expCode: model.CodeNoCode,
		},
		"A JSON string should be marked as no code.": {
			data:    `"x"`,
			expCode: model.CodeNoCode,
		},
		"A JSON number should be marked as no code.": {
			data:    `42`,
			expCode: model.CodeNoCode,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			env := model.ParseEnvelope([]byte(test.data))

			assert.Equal(test.expCode, env.Code)
			assert.Equal(test.expOK, env.OK())
			if test.expMsg != "" {
				assert.Equal(test.expMsg, env.Message)
			}
		})
	}
}

func TestEnvelopeDecode(t *testing.T) {
	t.Run("Decoding a success envelope should fill the fields and leave missing ones at zero.", func(t *testing.T) {
		env := model.ParseEnvelope([]byte(`{"code":"0","doubleCard":2,"signCard":5}`))

		var cards model.CardInventory
		require.NoError(t, env.Decode(&cards))
		assert.Equal(t, model.CardInventory{DoubleCard: 2, SignCard: 5}, cards)
	})

	t.Run("Decoding a sentinel envelope should fail with a shape error.", func(t *testing.T) {
		env := model.TransportFailure(errors.New("connection refused"))

		var cards model.CardInventory
		err := env.Decode(&cards)
		assert.ErrorIs(t, err, model.ErrShape)
		assert.Equal(t, `{"code":"999","message":"connection refused"}`, env.String())
	})
}
