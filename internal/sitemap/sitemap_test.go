package sitemap

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flithub-ie/flithub-go/internal/storage"
)

func TestGenerate(t *testing.T) {
	db, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	approved := &storage.Resource{
		Title:        "Listed",
		Description:  "Approved resource",
		ResourceType: "guide",
		Topics:       []string{"saving"},
		Levels:       []string{"primary"},
		ReviewStatus: "approved",
		UpdatedAt:    "2026-03-15T10:00:00Z",
	}
	require.NoError(t, db.InsertResource(context.Background(), approved))

	pending := &storage.Resource{
		Title:        "Hidden",
		Description:  "Pending resource",
		ResourceType: "guide",
		Topics:       []string{"saving"},
		Levels:       []string{"primary"},
		ReviewStatus: "pending",
	}
	require.NoError(t, db.InsertResource(context.Background(), pending))

	xml, err := New(db, "https://flithub.ie/").Generate(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, xml, "<loc>https://flithub.ie/</loc>")
	assert.Contains(t, xml, "<loc>https://flithub.ie/start-here</loc>")
	assert.Contains(t, xml, "<loc>https://flithub.ie/resources</loc>")
	assert.Contains(t, xml, "<loc>https://flithub.ie/providers</loc>")

	assert.Contains(t, xml, "<loc>https://flithub.ie/resources/"+approved.ID+"</loc>")
	assert.Contains(t, xml, "<lastmod>2026-03-15</lastmod>")
	assert.NotContains(t, xml, pending.ID)
}
