package snapshot

import (
	"testing"
	"time"

	"commune/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityRoundTrip(t *testing.T) {
	in := &model.Community{ID: 7, Name: "general", Description: "d", PhotoURL: "http://p", OwnerID: 3}

	data, err := EncodeCommunity(in)
	require.NoError(t, err)

	out, err := DecodeCommunity(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPostRoundTrip(t *testing.T) {
	edited := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	in := &model.Post{ID: 9, Title: "t", Text: "x", CommunityID: 7, OwnerID: 3, IsEdited: true, TimeEdited: edited}

	data, err := EncodePost(in)
	require.NoError(t, err)

	out, err := DecodePost(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := map[string][]byte{
		"not json":        []byte("not json"),
		"empty":           nil,
		"wrong version":   []byte(`{"v":99,"id":1}`),
		"missing version": []byte(`{"id":1}`),
		"zero id":         []byte(`{"v":1,"id":0}`),
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCommunity(payload)
			assert.ErrorIs(t, err, ErrIncompatible)
			_, err = DecodePost(payload)
			assert.ErrorIs(t, err, ErrIncompatible)
		})
	}
}
