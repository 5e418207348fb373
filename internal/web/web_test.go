package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplates_AllPagesRender(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	pages := []string{"login.html", "register.html", "home.html", "about.html", "contact.html", "dashboard.html", "error.html"}
	for _, page := range pages {
		var buf bytes.Buffer
		err := tmpl.ExecuteTemplate(&buf, page, map[string]any{
			"Title":    page,
			"Username": "alice",
			"FeedPath": "/dashboard/events",
			"Form":     map[string]string{},
		})
		require.NoError(t, err, page)
		require.Contains(t, buf.String(), "<title>"+page+"</title>")
	}
}
