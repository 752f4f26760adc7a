package ticket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDIssuer_Issue(t *testing.T) {
	issuer := NewUUIDIssuer()

	ticket, err := issuer.Issue("reg-1")
	require.NoError(t, err)
	assert.Equal(t, "reg-1", ticket.RegistrationID)
	assert.NotEmpty(t, ticket.ID)
	assert.True(t, strings.HasPrefix(ticket.Code, "tkt_"), "code should carry the tkt_ prefix")
	assert.False(t, ticket.IssuedAt.IsZero())
}

func TestUUIDIssuer_Issue_unique_codes(t *testing.T) {
	issuer := NewUUIDIssuer()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ticket, err := issuer.Issue("reg-1")
		require.NoError(t, err)
		require.False(t, seen[ticket.Code], "duplicate ticket code %s", ticket.Code)
		seen[ticket.Code] = true
	}
}

func TestUUIDIssuer_Issue_requires_registration(t *testing.T) {
	issuer := NewUUIDIssuer()

	_, err := issuer.Issue("")
	assert.Error(t, err)
}
