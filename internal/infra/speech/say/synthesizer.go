// Package say runs a local speech synthesis command such as macOS `say`.
package say

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/yanqian/smartchef/internal/domain/speech"
)

const (
	rateToken = "{rate}"
	textToken = "{text}"
)

// DefaultArgs matches `say -r <rate> -- <text>`. The terminator keeps advice that starts
// with a dash from being read as a flag.
var DefaultArgs = []string{"-r", rateToken, "--", textToken}

// Synthesizer spawns one process per playback.
type Synthesizer struct {
	binary string
	args   []string
}

// NewSynthesizer builds a synthesizer for binary. args may reference {rate} and {text};
// nil args means DefaultArgs.
func NewSynthesizer(binary string, args []string) *Synthesizer {
	if strings.TrimSpace(binary) == "" {
		binary = "say"
	}
	if args == nil {
		args = DefaultArgs
	}
	return &Synthesizer{binary: binary, args: args}
}

// Start implements speech.Synthesizer. The process outlives the request context.
func (s *Synthesizer) Start(_ context.Context, text string, rate int) (speech.Process, error) {
	cmd := exec.Command(s.binary, s.expand(text, rate)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", s.binary, err)
	}
	return &process{cmd: cmd}, nil
}

func (s *Synthesizer) expand(text string, rate int) []string {
	out := make([]string, 0, len(s.args))
	for _, arg := range s.args {
		arg = strings.ReplaceAll(arg, rateToken, strconv.Itoa(rate))
		arg = strings.ReplaceAll(arg, textToken, text)
		out = append(out, arg)
	}
	return out
}

type process struct {
	cmd *exec.Cmd
}

func (p *process) Wait() error {
	return p.cmd.Wait()
}

func (p *process) Stop() error {
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

var _ speech.Synthesizer = (*Synthesizer)(nil)
