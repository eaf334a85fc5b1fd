package api

import (
	"testing"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidator_TemplatePlatforms(t *testing.T) {
	t.Parallel()

	v := NewValidator()

	tpl := model.Template{
		Name:      "weekly digest",
		Body:      "hello",
		Platforms: []string{"twitter", "linkedin"},
		Frequency: model.FrequencyWeekly,
		Interval:  1,
	}
	assert.NoError(t, v.Validate(tpl))

	tpl.Platforms = []string{"twitter", "myspace"}
	assert.Error(t, v.Validate(tpl))

	tpl.Platforms = nil
	assert.Error(t, v.Validate(tpl))
}
