package validation

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(errs []string) map[string]bool {
	out := map[string]bool{}
	for _, e := range errs {
		out[e] = true
	}
	return out
}

func failedFields(t *testing.T, rules Ruleset, values url.Values) map[string]bool {
	t.Helper()
	var fields []string
	for _, e := range New().Check(rules, values) {
		fields = append(fields, e.Param)
	}
	return params(fields)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		failed []string
	}{
		{
			name:   "valid without phone",
			values: url.Values{"name": {"Ann"}, "email": {"ann@x.com"}, "password": {"secret1"}},
		},
		{
			name:   "valid with phone",
			values: url.Values{"name": {"Ann"}, "email": {"ann@x.com"}, "phone": {"0123456789"}, "password": {"secret1"}},
		},
		{
			name:   "missing name",
			values: url.Values{"email": {"ann@x.com"}, "password": {"secret1"}},
			failed: []string{"name"},
		},
		{
			name:   "blank name",
			values: url.Values{"name": {"   "}, "email": {"ann@x.com"}, "password": {"secret1"}},
			failed: []string{"name"},
		},
		{
			name:   "missing email",
			values: url.Values{"name": {"Ann"}, "password": {"secret1"}},
			failed: []string{"email"},
		},
		{
			name:   "bad email",
			values: url.Values{"name": {"Ann"}, "email": {"not-an-email"}, "password": {"secret1"}},
			failed: []string{"email"},
		},
		{
			name:   "short phone",
			values: url.Values{"name": {"Ann"}, "email": {"ann@x.com"}, "phone": {"12345"}, "password": {"secret1"}},
			failed: []string{"phone"},
		},
		{
			name:   "empty phone present",
			values: url.Values{"name": {"Ann"}, "email": {"ann@x.com"}, "phone": {""}, "password": {"secret1"}},
			failed: []string{"phone"},
		},
		{
			name:   "short password",
			values: url.Values{"name": {"Ann"}, "email": {"ann@x.com"}, "password": {"12345"}},
			failed: []string{"password"},
		},
		{
			name:   "name at column limit",
			values: url.Values{"name": {strings.Repeat("a", 100)}, "email": {"ann@x.com"}, "password": {"secret1"}},
		},
		{
			name:   "name too long",
			values: url.Values{"name": {strings.Repeat("a", 101)}, "email": {"ann@x.com"}, "password": {"secret1"}},
			failed: []string{"name"},
		},
		{
			name:   "email too long",
			values: url.Values{"name": {"Ann"}, "email": {strings.Repeat("a", 250) + "@x.com"}, "password": {"secret1"}},
			failed: []string{"email"},
		},
		{
			name:   "everything missing",
			values: url.Values{},
			failed: []string{"name", "email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, params(tt.failed), failedFields(t, Register, tt.values))
		})
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		failed []string
	}{
		{name: "empty body", values: url.Values{}},
		{name: "only email", values: url.Values{"email": {"new@x.com"}}},
		{name: "empty password allowed", values: url.Values{"password": {""}}},
		{name: "password rejected", values: url.Values{"password": {"secret1"}}, failed: []string{"password"}},
		{name: "blank name rejected", values: url.Values{"name": {" "}}, failed: []string{"name"}},
		{name: "bad email", values: url.Values{"email": {"nope"}}, failed: []string{"email"}},
		{name: "bad phone", values: url.Values{"phone": {"123"}}, failed: []string{"phone"}},
		{name: "name too long", values: url.Values{"name": {strings.Repeat("a", 101)}}, failed: []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, params(tt.failed), failedFields(t, Update, tt.values))
		})
	}
}

func TestCheck_ErrorShape(t *testing.T) {
	errs := New().Check(Register, url.Values{"name": {"Ann"}, "email": {"bad"}, "password": {"secret1"}})

	require.Len(t, errs, 1)
	assert.Equal(t, "Enter a valid email id", errs[0].Msg)
	assert.Equal(t, "email", errs[0].Param)
	assert.Equal(t, "body", errs[0].Location)
	assert.Equal(t, "bad", errs[0].Value)
}

func TestCheck_LongNameMessage(t *testing.T) {
	errs := New().Check(Register, url.Values{"name": {strings.Repeat("a", 101)}, "email": {"ann@x.com"}, "password": {"secret1"}})

	require.Len(t, errs, 1)
	assert.Equal(t, "Name must be at most 100 characters", errs[0].Msg)
}

func TestCheck_AbsentValueOmitted(t *testing.T) {
	errs := New().Check(Register, url.Values{"email": {"ann@x.com"}, "password": {"secret1"}})

	require.Len(t, errs, 1)
	assert.Nil(t, errs[0].Value)
}

func TestCheck_TrimsName(t *testing.T) {
	values := url.Values{"name": {"  Ann  "}, "email": {"ann@x.com"}, "password": {"secret1"}}

	errs := New().Check(Register, values)

	assert.Empty(t, errs)
	assert.Equal(t, "Ann", Submission(values).Name)
}
