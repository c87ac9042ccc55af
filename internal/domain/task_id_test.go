package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskIDValidate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple", "T1", false},
		{"large", "T12345", false},
		{"empty", "", true},
		{"prefix only", "T", true},
		{"lowercase prefix", "t1", true},
		{"letters after prefix", "Tabc", true},
		{"other prefix", "X5", true},
		{"too long", "T" + "1234567890123456789012345678901234", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TaskID(tt.value).Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.value, TaskID(tt.value).String())
		})
	}
}

func TestTaskIDSeq(t *testing.T) {
	tests := []struct {
		id   TaskID
		want int
	}{
		{"T1", 1},
		{"T42", 42},
		{"T007", 7},
		{"T12abc", 12},
		{"X", 0},
		{"X5", 0},
		{"T", 0},
		{"Tabc", 0},
		{"", 0},
		{"T99999999999999999999999", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.Seq())
		})
	}
}

func TestNextTaskID(t *testing.T) {
	assert.Equal(t, TaskID("T1"), NextTaskID(nil))
	assert.Equal(t, TaskID("T8"), NextTaskID([]TaskID{"T1", "T3", "T7"}))
	assert.Equal(t, TaskID("T8"), NextTaskID([]TaskID{"T7", "T1", "T3"}))
	assert.Equal(t, TaskID("T3"), NextTaskID([]TaskID{"bogus", "T2", ""}))
	assert.Equal(t, TaskID("T1"), NextTaskID([]TaskID{"X", "Tabc"}))
}
