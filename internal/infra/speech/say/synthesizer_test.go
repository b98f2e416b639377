package say

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	s := NewSynthesizer("", nil)
	require.Equal(t, "say", s.binary)
	require.Equal(t, []string{"-r", "180", "--", "多吃蔬菜"}, s.expand("多吃蔬菜", 180))
}

func TestExpandKeepsDashTextAsOperand(t *testing.T) {
	args := NewSynthesizer("say", nil).expand("-- low fat\n-o out.aiff", 160)
	require.Equal(t, []string{"-r", "160", "--", "-- low fat\n-o out.aiff"}, args)
}

func TestExpandCustomTemplate(t *testing.T) {
	args := NewSynthesizer("espeak", []string{"-s", "{rate}", "--", "{text}"}).expand("hi", 140)
	require.Equal(t, []string{"-s", "140", "--", "hi"}, args)
}

func TestStopKillsOnlyThatProcess(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep binary not available")
	}
	s := NewSynthesizer("sleep", []string{"5"})

	first, err := s.Start(context.Background(), "ignored", 160)
	require.NoError(t, err)
	second, err := s.Start(context.Background(), "ignored", 160)
	require.NoError(t, err)

	require.NoError(t, first.Stop())
	done := make(chan error, 1)
	go func() { done <- first.Wait() }()
	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stopped process did not exit")
	}

	secondDone := make(chan struct{})
	go func() {
		_ = second.Wait()
		close(secondDone)
	}()
	select {
	case <-secondDone:
		t.Fatal("unrelated process exited")
	case <-time.After(100 * time.Millisecond):
	}
	require.NoError(t, second.Stop())
	<-secondDone
}

func TestStartUnknownBinary(t *testing.T) {
	_, err := NewSynthesizer("definitely-not-a-speech-binary", nil).Start(context.Background(), "hi", 160)
	require.Error(t, err)
}
