// internal/form/form_test.go
//
// Unit-tests for descriptor loading and payload extraction.
//
// Run: go test ./internal/form -v

package form

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahamford77/table-tennis/internal/dom"
)

func TestDefaults_StockForms(t *testing.T) {
	reg, err := Defaults()
	require.NoError(t, err)

	ids := []string{}
	for _, d := range reg.All() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"createTournamentForm", "editTournamentForm", "registrationForm"}, ids)

	reg1, _ := reg.Lookup("registrationForm")
	assert.Equal(t, []string{"firstName", "surname", "email", "tournamentId"}, reg1.FieldNames())
	assert.Equal(t, "/register", reg1.Endpoint)
	assert.Equal(t, "/success", reg1.SuccessRedirect)
	assert.Equal(t, "Registration failed", reg1.DefaultError)
	assert.False(t, reg1.HasDate())

	create, _ := reg.Lookup("createTournamentForm")
	edit, _ := reg.Lookup("editTournamentForm")
	assert.Equal(t, create.FieldNames(), edit.FieldNames())
	assert.True(t, create.HasDate())
	assert.True(t, edit.HasDate())
	assert.Equal(t, "/tournaments/edit/{tournamentId}", edit.Endpoint)
	assert.Equal(t, "Failed to update tournament", edit.DefaultError)
	assert.Equal(t, "Failed to create tournament", create.DefaultError)
}

func TestGet_Unknown(t *testing.T) {
	_, err := NewRegistry().Get("nope")
	assert.True(t, errors.Is(err, ErrUnknownForm))
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing id":      "endpoint: /x\ndefault_error: e\nfields: [{name: a}]\n",
		"no fields":       "id: f\nendpoint: /x\ndefault_error: e\n",
		"relative url":    "id: f\nendpoint: x\ndefault_error: e\nfields: [{name: a}]\n",
		"bad type":        "id: f\nendpoint: /x\ndefault_error: e\nfields: [{name: a, type: float}]\n",
		"duplicate field": "id: f\nendpoint: /x\ndefault_error: e\nfields: [{name: a}, {name: a}]\n",
		"date not field":  "id: f\nendpoint: /x\ndefault_error: e\ndate_field: d\ndate_error_field: de\nfields: [{name: a}]\n",
		"no date error":   "id: f\nendpoint: /x\ndefault_error: e\ndate_field: a\nfields: [{name: a}]\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw), name)
			assert.Error(t, err)
		})
	}
}

func TestLoadDir_Overrides(t *testing.T) {
	reg, err := Defaults()
	require.NoError(t, err)

	dir := t.TempDir()
	override := "id: registrationForm\nendpoint: /signup\ndefault_error: Nope\nfields: [{name: email}]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reg.yaml"), []byte(override), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	require.NoError(t, reg.LoadDir(dir))
	d, _ := reg.Lookup("registrationForm")
	assert.Equal(t, "/signup", d.Endpoint)

	assert.NoError(t, reg.LoadDir(filepath.Join(dir, "missing")))
	assert.NoError(t, reg.LoadDir(""))
}

func editPage() *dom.Memory {
	doc := dom.NewDocument()
	doc.Add(dom.NewNode("input", "tournamentId")).SetValue("42")
	doc.Add(dom.NewNode("input", "name")).SetValue("Autumn Cup")
	doc.Add(dom.NewNode("textarea", "description")).SetValue("Doubles")
	doc.Add(dom.NewNode("input", "date")).SetValue("2031-05-04")
	doc.Add(dom.NewNode("input", "time")).SetValue("18:30")
	doc.Add(dom.NewNode("input", "location")).SetValue("Hall B")
	doc.Add(dom.NewNode("input", "maxEntrants")).SetValue("32")
	return doc
}

func TestBuildPayload_Edit(t *testing.T) {
	reg, _ := Defaults()
	edit, _ := reg.Lookup("editTournamentForm")

	got := edit.BuildPayload(editPage())
	want := Payload{
		"name":        "Autumn Cup",
		"description": "Doubles",
		"date":        "2031-05-04",
		"time":        "18:30",
		"location":    "Hall B",
		"maxEntrants": 32,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	ep, err := edit.ResolveEndpoint(editPage())
	require.NoError(t, err)
	assert.Equal(t, "/tournaments/edit/42", ep)
}

func TestBuildPayload_NonNumericBecomesNull(t *testing.T) {
	reg, _ := Defaults()
	d, _ := reg.Lookup("registrationForm")

	doc := dom.NewDocument()
	doc.Add(dom.NewNode("input", "firstName")).SetValue("Ada")
	doc.Add(dom.NewNode("select", "tournamentId")).SetValue("abc")

	p := d.BuildPayload(doc)
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstName":"Ada","surname":"","email":"","tournamentId":null}`, string(raw))
}

func TestBuildPayload_LargeIntegerStaysNumeric(t *testing.T) {
	reg, _ := Defaults()
	d, _ := reg.Lookup("createTournamentForm")

	doc := dom.NewDocument()
	doc.Add(dom.NewNode("input", "maxEntrants")).SetValue("12345678901234567890")

	p := d.BuildPayload(doc)
	assert.Equal(t, 12345678901234567890.0, p["maxEntrants"])
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"maxEntrants":12345678901234567000`)
}

func TestResolveEndpoint_MissingParam(t *testing.T) {
	reg, _ := Defaults()
	edit, _ := reg.Lookup("editTournamentForm")
	_, err := edit.ResolveEndpoint(dom.NewDocument())
	assert.Error(t, err)
}

func TestResolveEndpoint_Escapes(t *testing.T) {
	reg, _ := Defaults()
	edit, _ := reg.Lookup("editTournamentForm")
	doc := dom.NewDocument()
	doc.Add(dom.NewNode("input", "tournamentId")).SetValue("1/2")
	ep, err := edit.ResolveEndpoint(doc)
	require.NoError(t, err)
	assert.Equal(t, "/tournaments/edit/1%2F2", ep)
}

func TestExpand(t *testing.T) {
	assert.Equal(t, "/tournaments/delete/9", Expand("/tournaments/delete/{id}", map[string]string{"id": "9"}))
	assert.Equal(t, "/x/{y}", Expand("/x/{y}", nil))
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"  7", 7, true},
		{"12abc", 12, true},
		{"3.9", 3, true},
		{"-5", -5, true},
		{"+8", 8, true},
		{"0x1A", 26, true},
		{"0XfF", 255, true},
		{"-0x10", -16, true},
		{"0x1g", 1, true},
		{"12345678901234567890", 12345678901234567890, true},
		{"0x", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{"1" + strings.Repeat("0", 400), 0, false},
	}
	for _, c := range cases {
		got, ok := ParseInt(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}
