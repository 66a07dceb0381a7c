package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	startErr error
	stopErr  error
	audio    []byte
}

func (d *fakeDevice) Start(ctx context.Context) error { return d.startErr }
func (d *fakeDevice) Stop() ([]byte, error)           { return d.audio, d.stopErr }

type fakeTranscriber struct {
	text string
	err  error
}

func (t *fakeTranscriber) SpeechToText(ctx context.Context, audio []byte, filename string) (string, error) {
	return t.text, t.err
}

type fakeSynthesizer struct {
	audio []byte
	err   error
}

func (s *fakeSynthesizer) TextToSpeech(ctx context.Context, text, voiceType string) ([]byte, error) {
	return s.audio, s.err
}

func TestCaptureLifecycle(t *testing.T) {
	vc := NewVoiceController(
		&fakeDevice{audio: []byte("pcm")},
		&fakeTranscriber{text: "I have a headache"},
		&fakeSynthesizer{},
	)

	ctx := context.Background()

	require.NoError(t, vc.StartCapture(ctx))
	state, _ := vc.CaptureStatus()
	assert.Equal(t, CaptureListening, state)

	require.NoError(t, vc.StopCapture())
	state, _ = vc.CaptureStatus()
	assert.Equal(t, CaptureStopped, state)

	text, err := vc.Transcribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "I have a headache", text)

	state, _ = vc.CaptureStatus()
	assert.Equal(t, CaptureTranscriptReady, state)
	assert.Equal(t, "I have a headache", vc.Transcript())
}

func TestCapturePermissionDenied(t *testing.T) {
	vc := NewVoiceController(
		&fakeDevice{startErr: ErrMicPermissionDenied},
		&fakeTranscriber{},
		&fakeSynthesizer{},
	)

	err := vc.StartCapture(context.Background())
	assert.ErrorIs(t, err, ErrMicPermissionDenied)

	state, failure := vc.CaptureStatus()
	assert.Equal(t, CaptureFailed, state)
	assert.ErrorIs(t, failure, ErrMicPermissionDenied)
}

func TestCaptureUnsupportedDevice(t *testing.T) {
	vc := NewVoiceController(
		&fakeDevice{startErr: ErrDeviceUnsupported},
		&fakeTranscriber{},
		&fakeSynthesizer{},
	)

	err := vc.StartCapture(context.Background())
	assert.ErrorIs(t, err, ErrDeviceUnsupported)
}

func TestTranscribeRequiresRecording(t *testing.T) {
	vc := NewVoiceController(&fakeDevice{}, &fakeTranscriber{}, &fakeSynthesizer{})

	_, err := vc.Transcribe(context.Background())
	assert.ErrorIs(t, err, ErrNoRecording)
}

func TestTranscribeProviderFailureNotRetried(t *testing.T) {
	transcriber := &fakeTranscriber{err: errors.New("provider down")}
	vc := NewVoiceController(&fakeDevice{audio: []byte("pcm")}, transcriber, &fakeSynthesizer{})

	ctx := context.Background()
	require.NoError(t, vc.StartCapture(ctx))
	require.NoError(t, vc.StopCapture())

	_, err := vc.Transcribe(ctx)
	require.Error(t, err)

	state, _ := vc.CaptureStatus()
	assert.Equal(t, CaptureFailed, state)
}

func TestSynthesisIndependentOfCapture(t *testing.T) {
	vc := NewVoiceController(
		&fakeDevice{audio: []byte("pcm")},
		&fakeTranscriber{text: "hello"},
		&fakeSynthesizer{audio: []byte("mp3")},
	)

	ctx := context.Background()
	require.NoError(t, vc.StartCapture(ctx))

	// Synthesis runs while capture is listening
	audio, err := vc.Speak(ctx, "Take rest and fluids", "calm")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3"), audio)

	captureState, _ := vc.CaptureStatus()
	assert.Equal(t, CaptureListening, captureState)

	synthState, _ := vc.SynthesisStatus()
	assert.Equal(t, SynthesisIdle, synthState)
}

func TestSynthesisFailure(t *testing.T) {
	vc := NewVoiceController(
		&fakeDevice{},
		&fakeTranscriber{},
		&fakeSynthesizer{err: errors.New("tts unavailable")},
	)

	_, err := vc.Speak(context.Background(), "text", "")
	require.Error(t, err)

	state, failure := vc.SynthesisStatus()
	assert.Equal(t, SynthesisFailed, state)
	assert.Error(t, failure)
}

func TestAccessibilityToggleIsLocal(t *testing.T) {
	vc := NewVoiceController(&fakeDevice{}, &fakeTranscriber{}, &fakeSynthesizer{})

	assert.False(t, vc.AccessibilityEnabled())
	assert.True(t, vc.ToggleAccessibility())
	assert.False(t, vc.ToggleAccessibility())
}
