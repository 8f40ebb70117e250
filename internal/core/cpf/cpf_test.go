package cpf

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"123.456.789-09", AdminSentinel, "999.999.999-99"} {
		c, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, c.String())
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"12345678909",
		"123.456.789.09",
		"123-456-789-09",
		"123.456.78909",
		"123.456.789-0",
		"123.456.789-091",
		" 123.456.789-09",
		"abc.def.ghi-jk",
		"１23.456.789-09",
	}

	for _, raw := range cases {
		_, err := Parse(raw)
		if !errors.Is(err, domainerr.ErrInvalid) {
			t.Errorf("Parse(%q): expected Invalid, got %v", raw, err)
		}
	}
}

func TestCpf_Digits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12345678909", MustParse("123.456.789-09").Digits())
	assert.Equal(t, "00000000000", MustParse(AdminSentinel).Digits())
}

func TestCpf_Equality(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MustParse("123.456.789-09"), MustParse("123.456.789-09"))
	assert.NotEqual(t, MustParse("123.456.789-09"), MustParse("123.456.789-00"))
	assert.True(t, Cpf{}.IsZero())
}

func TestCpf_JSON(t *testing.T) {
	t.Parallel()

	var out struct {
		Cpf Cpf `json:"cpf"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"cpf":"123.456.789-09"}`), &out))
	assert.Equal(t, "123.456.789-09", out.Cpf.String())

	err := json.Unmarshal([]byte(`{"cpf":"12345678909"}`), &out)
	assert.Error(t, err)
}
