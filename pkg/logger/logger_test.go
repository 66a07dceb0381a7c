package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithConsultationAddsField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", JSON: true, Output: &buf})

	log.WithConsultation(42).Info("client joined")

	assert.Contains(t, buf.String(), `"consultation_id":42`)
}

func TestWithConsultationZeroIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", JSON: true, Output: &buf})

	scoped := log.WithConsultation(0)
	scoped.Info("anonymous event")

	assert.Same(t, log, scoped)
	assert.NotContains(t, buf.String(), "consultation_id")
}
