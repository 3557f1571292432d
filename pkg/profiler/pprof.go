package profiler

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"github.com/google/pprof/profile"

	"github.com/eunmann/tifbench/pkg/fileutil"
	"github.com/eunmann/tifbench/pkg/logging"
	"github.com/eunmann/tifbench/pkg/memdiag"
)

// MarkerEnv is set in the environment of a relaunched benchmark process.
const MarkerEnv = "TIFBENCH_PROFILED"

// Pprof profiles with runtime/pprof. CPU samples collected while active
// are kept in memory until the next Reset.
type Pprof struct {
	// Relaunch makes Start re-execute the binary with MarkerEnv set and
	// report hand-off, unless MarkerEnv is already set.
	Relaunch bool

	// Stdout receives reports written with an empty path.
	Stdout io.Writer

	// relaunch runs the child process; replaced in tests.
	relaunch func(argv []string, env []string) error

	args      []string
	active    bool
	buf       bytes.Buffer
	profiles  []*profile.Profile
	memBefore memdiag.Stats
	// memArmed is set once the first window after Reset took memBefore.
	memArmed bool
}

var _ Profiler = (*Pprof)(nil)

// NewPprof creates a profiler writing stdout reports to os.Stdout.
func NewPprof(relaunch bool) *Pprof {
	return &Pprof{
		Relaunch: relaunch,
		Stdout:   os.Stdout,
		relaunch: execSelf,
	}
}

// Start records args for the report header and, when relaunching, runs the
// benchmark in a child process.
func (p *Pprof) Start(args []string) (bool, error) {
	p.args = append([]string(nil), args...)
	p.memBefore = memdiag.Read()

	if !p.Relaunch || os.Getenv(MarkerEnv) != "" {
		return false, nil
	}

	env := append(os.Environ(), MarkerEnv+"=1")
	logging.L().Info().
		Strs("args", os.Args[1:]).
		Msg("relaunching under profiler")
	if err := p.relaunch(os.Args, env); err != nil {
		return true, fmt.Errorf("relaunch: %w", err)
	}
	return true, nil
}

func execSelf(argv []string, env []string) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := exec.Command(exe, argv[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// SetActive starts or stops CPU sampling.
func (p *Pprof) SetActive(on bool) error {
	if on == p.active {
		return nil
	}
	if on {
		if !p.memArmed {
			p.memBefore = memdiag.Read()
			p.memArmed = true
		}
		p.buf.Reset()
		if err := pprof.StartCPUProfile(&p.buf); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		p.active = true
		return nil
	}
	return p.stop()
}

func (p *Pprof) stop() error {
	if !p.active {
		return nil
	}
	pprof.StopCPUProfile()
	p.active = false

	prof, err := profile.Parse(&p.buf)
	p.buf.Reset()
	if err != nil {
		return fmt.Errorf("parse cpu profile: %w", err)
	}
	p.profiles = append(p.profiles, prof)
	return nil
}

// Reset stops sampling and discards collected samples.
func (p *Pprof) Reset() {
	if p.active {
		pprof.StopCPUProfile()
		p.active = false
	}
	p.buf.Reset()
	p.profiles = nil
	p.memBefore = memdiag.Read()
	p.memArmed = false
}

// Profile stops sampling and returns the merged collected profile, or nil
// when nothing was collected.
func (p *Pprof) Profile() (*profile.Profile, error) {
	if err := p.stop(); err != nil {
		return nil, err
	}
	switch len(p.profiles) {
	case 0:
		return nil, nil
	case 1:
		return p.profiles[0], nil
	}
	merged, err := profile.Merge(p.profiles)
	if err != nil {
		return nil, fmt.Errorf("merge profiles: %w", err)
	}
	p.profiles = []*profile.Profile{merged}
	return merged, nil
}

// Report writes the topN hotspots followed by the heap allocation delta
// since the first active window after the last Reset. With a non-empty path the raw profile is also
// written to path + ".pprof".
func (p *Pprof) Report(path string, topN int) error {
	prof, err := p.Profile()
	if err != nil {
		return err
	}
	delta := memdiag.Diff(p.memBefore, memdiag.Read())

	var b bytes.Buffer
	if len(p.args) > 0 {
		fmt.Fprintf(&b, "args: %s\n", strings.Join(p.args, " "))
	}
	if err := Aggregate(prof).WriteTop(&b, topN); err != nil {
		return err
	}
	fmt.Fprintf(&b, "memory: %s\n", delta)

	if path == "" {
		_, err := p.Stdout.Write(b.Bytes())
		return err
	}

	if err := fileutil.WriteTmpThenMove(filepath.Dir(path), path, func(tmp string) error {
		return os.WriteFile(tmp, b.Bytes(), 0644)
	}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if prof == nil {
		return nil
	}
	if err := fileutil.WriteTmpThenMove(filepath.Dir(path), path+".pprof", func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		if err := prof.Write(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}); err != nil {
		return fmt.Errorf("write raw profile: %w", err)
	}
	return nil
}
