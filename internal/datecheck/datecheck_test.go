package datecheck

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahamford77/table-tennis/internal/dom"
	"github.com/grahamford77/table-tennis/internal/metrics"
)

// 2030-06-15 late evening in New York is already the 16th in UTC.
var now = time.Date(2030, 6, 15, 23, 30, 0, 0, time.FixedZone("EDT", -4*3600))

func page(value string) (*dom.Memory, *Validator) {
	doc := dom.NewDocument()
	doc.Add(dom.NewNode("input", "date")).SetValue(value)
	doc.Add(dom.NewNode("div", "dateError").WithClass("error"))
	v, _ := Attach(doc, "date", "dateError", WithClock(clockwork.NewFakeClockAt(now)))
	return doc, v
}

func TestToday_UsesUTC(t *testing.T) {
	assert.Equal(t, "2030-06-16", Today(clockwork.NewFakeClockAt(now)))
}

func TestCheck(t *testing.T) {
	cases := []struct {
		value string
		want  Reason
	}{
		{"", ReasonRequired},
		{"2030-06-15", ReasonNotFuture},
		{"2030-06-16", ReasonNotFuture},
		{"2030-06-17", ReasonNone},
		{"2031-01-01", ReasonNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Check(c.value, "2030-06-16"), "value %q", c.value)
	}
}

func TestAttach_MissingElements(t *testing.T) {
	doc := dom.NewDocument()
	doc.Add(dom.NewNode("input", "date"))
	_, ok := Attach(doc, "date", "dateError")
	assert.False(t, ok)
	assert.Zero(t, doc.Node("date").Listeners("change"))

	_, ok = Attach(dom.NewDocument(), "date", "dateError")
	assert.False(t, ok)
}

func TestAttach_SetsMinAndBindsEvents(t *testing.T) {
	doc, v := page("")
	require.NotNil(t, v)

	field := doc.Node("date")
	assert.Equal(t, "2030-06-16", field.Attr("min"))
	assert.Equal(t, 1, field.Listeners("change"))
	assert.Equal(t, 1, field.Listeners("blur"))
	assert.Equal(t, Untouched, v.State())
}

func TestValidate_Today(t *testing.T) {
	doc, v := page("2030-06-16")
	before := testutil.ToFloat64(metrics.DateValidationFailures.WithLabelValues("not_future"))

	assert.False(t, v.Validate())
	assert.Equal(t, Invalid, v.State())
	assert.Equal(t, ReasonNotFuture, v.Reason())

	errEl := doc.Node("dateError")
	assert.Equal(t, MsgNotFuture, errEl.Text())
	assert.Equal(t, "block", errEl.Style("display"))
	assert.Equal(t, BorderInvalid, doc.Node("date").Style("border-color"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DateValidationFailures.WithLabelValues("not_future")))
}

func TestValidate_Empty(t *testing.T) {
	doc, v := page("")
	assert.False(t, v.Validate())
	assert.Equal(t, MsgRequired, doc.Node("dateError").Text())
}

func TestValidate_RecoversOnChange(t *testing.T) {
	doc, v := page("2030-06-01")
	assert.False(t, v.Validate())

	field := doc.Node("date")
	field.SetValue("2030-07-01")
	field.Fire("change")

	errEl := doc.Node("dateError")
	assert.Equal(t, Valid, v.State())
	assert.Equal(t, ReasonNone, v.Reason())
	assert.Equal(t, "", errEl.Text())
	assert.Equal(t, "none", errEl.Style("display"))
	assert.Equal(t, BorderValid, field.Style("border-color"))
}

func TestValidate_BlurRechecks(t *testing.T) {
	doc, v := page("2030-07-01")
	doc.Node("date").SetValue("")
	doc.Node("date").Fire("blur")
	assert.Equal(t, Invalid, v.State())
	assert.Equal(t, ReasonRequired, v.Reason())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "untouched", Untouched.String())
	assert.Equal(t, "invalid", Invalid.String())
}
