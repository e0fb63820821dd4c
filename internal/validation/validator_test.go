package validation

import (
	"strings"
	"testing"

	"vidquiz/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreateQuizRequest(t *testing.T) {
	v := NewValidator()

	t.Run("valid URL", func(t *testing.T) {
		errs := v.ValidateCreateQuizRequest("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		assert.Empty(t, errs)
	})

	t.Run("missing URL", func(t *testing.T) {
		errs := v.ValidateCreateQuizRequest("   ")
		require.Len(t, errs, 1)
		assert.Equal(t, "video_url", errs[0].Field)
	})

	t.Run("URL too long", func(t *testing.T) {
		long := "https://www.youtube.com/watch?v=" + strings.Repeat("a", MaxVideoURLLength)
		errs := v.ValidateCreateQuizRequest(long)
		require.Len(t, errs, 1)
		assert.Equal(t, "video_url", errs[0].Field)
	})
}

func TestValidateQuizID(t *testing.T) {
	v := NewValidator()

	t.Run("generated ULID passes", func(t *testing.T) {
		errs := v.ValidateQuizID(util.NewULID())
		assert.Empty(t, errs)
	})

	t.Run("missing ID", func(t *testing.T) {
		errs := v.ValidateQuizID("")
		require.Len(t, errs, 1)
		assert.Equal(t, "quiz_id", errs[0].Field)
	})

	t.Run("wrong length", func(t *testing.T) {
		errs := v.ValidateQuizID("01HTESTQUIZ")
		require.Len(t, errs, 1)
	})

	t.Run("excluded base32 characters rejected", func(t *testing.T) {
		// I, L, O and U are not part of Crockford's Base32.
		errs := v.ValidateQuizID("ILOU00000000000000000000A0")
		require.Len(t, errs, 1)
	})

	t.Run("lowercase rejected", func(t *testing.T) {
		errs := v.ValidateQuizID(strings.ToLower(util.NewULID()))
		require.Len(t, errs, 1)
	})
}
