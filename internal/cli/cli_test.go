package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Additional-Code/rentcamp/internal/entity"
	"github.com/Additional-Code/rentcamp/internal/lifecycle"
	"github.com/Additional-Code/rentcamp/internal/service/tracking"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"start", "migrate", "seed", "timeline", "token", "worker"} {
		assert.True(t, names[want], want)
	}
}

func TestPrintTimeline(t *testing.T) {
	timeline, err := lifecycle.BuildTimeline("shipped")
	require.NoError(t, err)
	current, _ := timeline.Current()

	var buf bytes.Buffer
	printTimeline(&buf, tracking.View{
		Order:    &entity.Order{ID: "RC-20240115-ABC123DEF", PackageName: "Paket Couple Camp", TotalPrice: 750000},
		Timeline: timeline,
		Current:  current,
	})

	out := buf.String()
	assert.Contains(t, out, "RC-20240115-ABC123DEF")
	assert.Contains(t, out, "Rp 750.000")
	assert.Equal(t, 3, strings.Count(out, "[x]"))
	assert.Equal(t, 1, strings.Count(out, "[>]"))
	assert.Equal(t, 4, strings.Count(out, "[ ]"))
}

func TestTokenHash(t *testing.T) {
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"token", "hash", "admin-secret"})
	require.NoError(t, root.Execute())

	hash := strings.TrimSpace(buf.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("admin-secret")))
}
