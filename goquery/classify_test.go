package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offerdoc/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDocument(t *testing.T, html string) *gq.Document {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestClassify(t *testing.T) {
	t.Parallel()

	doc := mustDocument(t, `<html><body>
<h2 id="heading">Objects of the Issue</h2>
<table>
	<tr><td id="label">Face Value</td><td id="value">₹10 per share</td></tr>
	<tr><td id="wide">Period</td><td>FY2025</td><td>FY2024</td></tr>
</table>
<div class="card"><p id="muted" class="text-muted mb-1">IPO Open</p><p id="plain">Tue, Jan 20, 2026</p></div>
<ul>
	<li id="icon-phone"><i class="fa fa-phone"></i> Call us</li>
	<li id="icon-mail"><i class="bi bi-envelope"></i> Write to us</li>
	<li id="icon-web"><svg class="icon-globe"></svg> Visit</li>
	<li id="email">investors@acme.example</li>
	<li id="web"><a href="https://acme.example">Acme</a></li>
	<li id="phone">+91 22 4918 6000</li>
	<li id="short">Ext 123</li>
	<li id="item">Manufacturing of steel pipes</li>
</ul>
</body></html>`)

	for _, tc := range []struct {
		id   string
		want goquery.Role
	}{
		{"heading", goquery.RoleHeading},
		{"label", goquery.RoleLabelCell},
		{"value", goquery.RoleValueCell},
		{"wide", goquery.RoleNone},
		{"muted", goquery.RoleMutedLabel},
		{"plain", goquery.RoleNone},
		{"icon-phone", goquery.RoleIconPhone},
		{"icon-mail", goquery.RoleIconEmail},
		{"icon-web", goquery.RoleIconWeb},
		{"email", goquery.RoleIconEmail},
		{"web", goquery.RoleIconWeb},
		{"phone", goquery.RoleIconPhone},
		{"short", goquery.RoleListItem},
		{"item", goquery.RoleListItem},
	} {
		t.Run(tc.id, func(t *testing.T) {
			t.Parallel()

			n := doc.Find("#" + tc.id).Get(0)
			require.NotNil(t, n)
			assert.Equal(t, tc.want, goquery.Classify(n))
		})
	}

	t.Run("returns none for nil", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, goquery.RoleNone, goquery.Classify(nil))
	})
}

func TestRole_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "label-cell", goquery.RoleLabelCell.String())
	assert.Equal(t, "icon-email", goquery.RoleIconEmail.String())
	assert.Equal(t, "unknown", goquery.Role(99).String())
}
