// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	assert.NoError(t, reg.Validate())

	for _, taskType := range []string{
		"calculate-ai-risk",
		"record-assessment",
		"encode-share-payload",
		"decode-share-payload",
		"telegram-send-message",
	} {
		activity, err := reg.Find(taskType)
		require.NoError(t, err, taskType)
		assert.NotEmpty(t, activity.InputSchema, taskType)
	}
}

func TestFind_Unknown(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	_, err = reg.Find("validate-subscription")

	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestValidate_Failures(t *testing.T) {
	valid := func() Activity {
		return Activity{ID: "a", DisplayName: "A", TaskType: "a", Category: "c", Timeout: "5s"}
	}

	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{"empty", ActivityRegistry{}, "no activities"},
		{"missing id", ActivityRegistry{Activities: []Activity{{DisplayName: "A"}}}, "ID"},
		{"duplicate id", ActivityRegistry{Activities: []Activity{valid(), valid()}}, "duplicate activity ID"},
		{"bad timeout", ActivityRegistry{Activities: []Activity{func() Activity {
			a := valid()
			a.Timeout = "soon"
			return a
		}()}}, "invalid timeout"},
		{"bad schema", ActivityRegistry{Activities: []Activity{func() Activity {
			a := valid()
			a.InputSchema = map[string]interface{}{"type": 5}
			return a
		}()}}, "invalid inputSchema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInputValidator_CalculateAIRisk(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	v, err := NewInputValidator(reg)
	require.NoError(t, err)

	ok, err := v.ValidateJSON("calculate-ai-risk", []byte(`{
		"industry": "finance",
		"dataOpenness": 50,
		"workDataDigitalization": 50,
		"processStandardization": 50,
		"currentAIAdoption": 20
	}`))
	require.NoError(t, err)
	assert.True(t, ok.Valid)

	bad, err := v.ValidateJSON("calculate-ai-risk", []byte(`{"industry": "finance", "dataOpenness": 120}`))
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	assert.True(t, bad.HasErrors("dataOpenness"))
	assert.True(t, bad.HasErrors("currentAIAdoption"))
}

func TestInputValidator_TelegramNeedsTextOrPhoto(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	v, err := NewInputValidator(reg)
	require.NoError(t, err)

	result, err := v.ValidateJSON("telegram-send-message", []byte(`{"caption": "hi"}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)

	result, err = v.ValidateJSON("telegram-send-message", []byte(`{"text": "hi"}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestInputValidator_UnknownTaskAcceptsAnything(t *testing.T) {
	v, err := NewInputValidator(&ActivityRegistry{})
	require.NoError(t, err)

	result, err := v.ValidateJSON("anything", []byte(`{}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, embeddedActivities, 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 5)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestActivity_TimeoutDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, Activity{Timeout: "5s"}.TimeoutDuration())
	assert.Equal(t, time.Duration(0), Activity{}.TimeoutDuration())
	assert.Equal(t, time.Duration(0), Activity{Timeout: "soon"}.TimeoutDuration())
}
