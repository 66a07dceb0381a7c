package client

import (
	"context"
	"errors"
	"sync"
)

// CaptureState is the microphone capture lifecycle
type CaptureState int

const (
	CaptureIdle CaptureState = iota
	CaptureListening
	CaptureStopped
	CaptureTranscribing
	CaptureTranscriptReady
	CaptureFailed
)

// SynthesisState is the speech playback lifecycle
type SynthesisState int

const (
	SynthesisIdle SynthesisState = iota
	SynthesisSpeaking
	SynthesisFailed
)

// Capture failure kinds surfaced to the user
var (
	ErrMicPermissionDenied = errors.New("microphone access was denied")
	ErrDeviceUnsupported   = errors.New("audio capture is not supported on this device")
	ErrNotListening        = errors.New("capture is not active")
	ErrAlreadyListening    = errors.New("capture is already active")
	ErrNoRecording         = errors.New("nothing has been recorded yet")
)

// AudioDevice abstracts the microphone. Start returns the permission or
// support failure; Stop yields the recorded audio.
type AudioDevice interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
}

// Transcriber converts recorded audio to text
type Transcriber interface {
	SpeechToText(ctx context.Context, audio []byte, filename string) (string, error)
}

// Synthesizer converts text to playable audio
type Synthesizer interface {
	TextToSpeech(ctx context.Context, text string, voiceType string) ([]byte, error)
}

// VoiceController drives the voice interface. Capture and synthesis are
// independent state machines and may be active at the same time; the
// accessibility toggle is purely local. No failure is retried automatically.
type VoiceController struct {
	device      AudioDevice
	transcriber Transcriber
	synthesizer Synthesizer

	mu            sync.Mutex
	captureState  CaptureState
	captureErr    error
	transcript    string
	recorded      []byte
	synthState    SynthesisState
	synthErr      error
	accessibility bool
}

// NewVoiceController creates a voice controller
func NewVoiceController(device AudioDevice, transcriber Transcriber, synthesizer Synthesizer) *VoiceController {
	return &VoiceController{
		device:      device,
		transcriber: transcriber,
		synthesizer: synthesizer,
	}
}

// CaptureState returns the capture machine's state
func (v *VoiceController) CaptureStatus() (CaptureState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.captureState, v.captureErr
}

// SynthesisStatus returns the synthesis machine's state
func (v *VoiceController) SynthesisStatus() (SynthesisState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.synthState, v.synthErr
}

// Transcript returns the latest transcription result
func (v *VoiceController) Transcript() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.transcript
}

// StartCapture opens the microphone. Permission refusal and unsupported
// devices surface as distinct failures and move the machine to Failed.
func (v *VoiceController) StartCapture(ctx context.Context) error {
	v.mu.Lock()
	if v.captureState == CaptureListening {
		v.mu.Unlock()
		return ErrAlreadyListening
	}
	v.mu.Unlock()

	err := v.device.Start(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.captureState = CaptureFailed
		v.captureErr = err
		return err
	}

	v.captureState = CaptureListening
	v.captureErr = nil
	return nil
}

// StopCapture closes the microphone and keeps the recording for transcription
func (v *VoiceController) StopCapture() error {
	v.mu.Lock()
	if v.captureState != CaptureListening {
		v.mu.Unlock()
		return ErrNotListening
	}
	v.mu.Unlock()

	audio, err := v.device.Stop()

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.captureState = CaptureFailed
		v.captureErr = err
		return err
	}

	v.captureState = CaptureStopped
	v.recorded = audio
	return nil
}

// Transcribe sends the recording to the speech provider
func (v *VoiceController) Transcribe(ctx context.Context) (string, error) {
	v.mu.Lock()
	if v.captureState != CaptureStopped || len(v.recorded) == 0 {
		v.mu.Unlock()
		return "", ErrNoRecording
	}
	audio := v.recorded
	v.captureState = CaptureTranscribing
	v.mu.Unlock()

	text, err := v.transcriber.SpeechToText(ctx, audio, "capture.webm")

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.captureState = CaptureFailed
		v.captureErr = err
		return "", err
	}

	v.captureState = CaptureTranscriptReady
	v.transcript = text
	return text, nil
}

// Speak synthesizes and "plays" the text. Playback here means a completed
// provider round trip; the audio bytes are returned to the caller.
func (v *VoiceController) Speak(ctx context.Context, text, voiceType string) ([]byte, error) {
	v.mu.Lock()
	v.synthState = SynthesisSpeaking
	v.synthErr = nil
	v.mu.Unlock()

	audio, err := v.synthesizer.TextToSpeech(ctx, text, voiceType)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.synthState = SynthesisFailed
		v.synthErr = err
		return nil, err
	}

	v.synthState = SynthesisIdle
	return audio, nil
}

// ToggleAccessibility flips the local accessibility mode. No backend effect.
func (v *VoiceController) ToggleAccessibility() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.accessibility = !v.accessibility
	return v.accessibility
}

// AccessibilityEnabled reports the local accessibility mode
func (v *VoiceController) AccessibilityEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.accessibility
}
