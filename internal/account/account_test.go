package account

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkaify/Nova-Threads/internal/domain"
)

type mockClient struct {
	profiles []domain.Profile
	selErr   error

	updates []string
	bodies  []any
	updErr  error
}

func (m *mockClient) Select(_ context.Context, table, query string, dest any) error {
	if table != "profiles" {
		return errors.New("unexpected table " + table)
	}
	if m.selErr != nil {
		return m.selErr
	}
	_ = query
	*(dest.(*[]domain.Profile)) = m.profiles
	return nil
}

func (m *mockClient) Update(_ context.Context, table, query string, body, _ any) error {
	if table != "profiles" {
		return errors.New("unexpected table " + table)
	}
	if m.updErr != nil {
		return m.updErr
	}
	m.updates = append(m.updates, query)
	m.bodies = append(m.bodies, body)
	return nil
}

func TestGetProfile(t *testing.T) {
	client := &mockClient{profiles: []domain.Profile{{ID: "u1", Email: "ada@example.com", FullName: "Ada L"}}}
	sut := New(client)

	profile, err := sut.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L", profile.FullName)
}

func TestGetProfile_NotFound(t *testing.T) {
	sut := New(&mockClient{})

	_, err := sut.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetProfile_RemoteError(t *testing.T) {
	sut := New(&mockClient{selErr: errors.New("remote down")})

	_, err := sut.GetProfile(context.Background(), "u1")
	assert.Error(t, err)
}

func TestUpdateFullName(t *testing.T) {
	client := &mockClient{}
	sut := New(client)

	require.NoError(t, sut.UpdateFullName(context.Background(), "u1", "Ada Lovelace"))

	require.Len(t, client.updates, 1)
	assert.Equal(t, "id=eq.u1", client.updates[0])
	assert.Equal(t, map[string]string{"full_name": "Ada Lovelace"}, client.bodies[0])
}

func TestUpdateFullName_RemoteError(t *testing.T) {
	sut := New(&mockClient{updErr: errors.New("remote down")})
	assert.Error(t, sut.UpdateFullName(context.Background(), "u1", "Ada"))
}
