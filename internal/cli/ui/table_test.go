package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Render(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "KEY", "IDENTIFIER")
	table.AddRow("app_name", "AppName")
	table.AddRow("café", "Café", "ignored")
	table.Render()

	expected := "KEY       IDENTIFIER\n" +
		"────────  ──────────\n" +
		"app_name  AppName\n" +
		"café      Café\n"
	assert.Equal(t, expected, buf.String())
}

func TestTable_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true)
	table.AddRow()
	table.Render()
	assert.Empty(t, buf.String())
}
