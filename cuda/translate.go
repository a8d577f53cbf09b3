package cuda

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Translator lowers a kernel's intermediate representation to the machine
// code module the driver loads. Implementations must leave the artifact at
// outPath; the submission engine treats any failure as fatal, there being
// no fallback lowering.
type Translator interface {
	Translate(irPath, outPath, kernelName, arch string) error
}

// DefaultTranslatorCommand is the translator program used when neither the
// "translator" config key nor TranslatorEnv names one.
const DefaultTranslatorCommand = "llc"

// CommandTranslator translates by running an external llc-style program:
//
//	<command> -mtriple=nvptx64-nvidia-cuda -mcpu=<arch> -o <out> <ir>
//
// The program's stderr is folded into the returned error.
type CommandTranslator struct {
	// Command is the program to run, resolved through PATH.
	Command string
}

// Translate implements Translator.
func (t CommandTranslator) Translate(irPath, outPath, kernelName, arch string) error {
	args := []string{"-mtriple=nvptx64-nvidia-cuda", "-mcpu=" + arch, "-o", outPath, irPath}
	klog.V(2).Infof("cuda: translating %s: %s %s", kernelName, t.Command, strings.Join(args, " "))
	cmd := exec.Command(t.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "cuda: translating %s for %s: %s",
			kernelName, arch, strings.TrimSpace(stderr.String()))
	}
	return nil
}
