package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageTitle(t *testing.T) {
	require.Equal(t, "Forum | Hanko Community", PageTitle("Forum", "Hanko Community"))
	require.Equal(t, "Hanko Community", PageTitle("", "Hanko Community"))
	require.Equal(t, "Forum", PageTitle("Forum", ""))
}

func TestAbsoluteURL(t *testing.T) {
	require.Equal(t, "https://example.com/forum", AbsoluteURL("https://example.com/", "/forum"))
	require.Equal(t, "/forum", AbsoluteURL("", "/forum"))
}

func TestBreadcrumbListPositions(t *testing.T) {
	raw, err := json.Marshal(BreadcrumbList([]BreadcrumbItem{
		{Name: "Home", Item: "https://example.com/"},
		{Name: "Forum", Item: "https://example.com/forum"},
	}))
	require.NoError(t, err)

	var decoded struct {
		Type  string `json:"@type"`
		Items []struct {
			Position int    `json:"position"`
			Name     string `json:"name"`
		} `json:"itemListElement"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "BreadcrumbList", decoded.Type)
	require.Len(t, decoded.Items, 2)
	require.Equal(t, 2, decoded.Items[1].Position)
	require.Equal(t, "Forum", decoded.Items[1].Name)
}

func TestNewMetaFillsShareCards(t *testing.T) {
	m := NewMeta("Forum", "Hanko Community", "Talk", "https://example.com/forum", "https://example.com/logo.svg")
	require.Equal(t, "Forum | Hanko Community", m.OG.Title)
	require.Equal(t, RobotsIndex, m.Robots)
	require.Equal(t, "https://example.com/logo.svg", m.OG.Image)
	require.Equal(t, m.OG.Image, m.Twitter.Image)
	require.Equal(t, "https://example.com/forum", m.OG.URL)
}
