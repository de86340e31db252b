// Package doctor runs environment diagnostics: are the configured providers
// usable on this machine, where do skills load from, and does a routed
// utterance make it through the pipeline. The report is advisory; only
// outright failures make the doctor command exit non-zero.
package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/clarionvoice/clarion/internal/config"
	"github.com/clarionvoice/clarion/internal/intent"
	"github.com/clarionvoice/clarion/internal/skill"
	"github.com/clarionvoice/clarion/internal/skill/builtin"
	"github.com/clarionvoice/clarion/internal/sysops"
)

// Status classifies one check outcome.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// CheckResult is the outcome of a single diagnostic.
type CheckResult struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Detail string `json:"detail"`
}

// Report aggregates all check results.
type Report struct {
	Results []CheckResult `json:"results"`
}

// OK reports whether no check failed outright.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if res.Status == StatusFail {
			return false
		}
	}
	return true
}

// WriteText renders the report for terminals.
func (r *Report) WriteText(w io.Writer) {
	marks := map[Status]string{
		StatusOK:   "✓",
		StatusWarn: "!",
		StatusFail: "✗",
		StatusSkip: "-",
	}
	for _, res := range r.Results {
		fmt.Fprintf(w, "%s %-24s %s\n", marks[res.Status], res.Name, res.Detail)
	}
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Options configures a diagnostic run.
type Options struct {
	// Config is the effective configuration. Required.
	Config *config.Config

	// SkillsDir is the resolved skills directory.
	SkillsDir string

	// Mock reports whether mock mode is in effect.
	Mock bool

	// HTTPTimeout bounds the whisper server probe. Default 2s.
	HTTPTimeout time.Duration
}

// Run executes all diagnostics and returns the report.
func Run(ctx context.Context, opts Options) *Report {
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = 2 * time.Second
	}

	r := &Report{}
	r.add(checkMockMode(opts))
	r.add(checkProviders(opts.Config))
	r.add(checkTTSBinary(opts))
	r.add(checkVolumeBinary(opts))
	r.add(checkWhisperServer(ctx, opts))
	r.add(checkSkillsDir(opts))
	r.add(checkSteam())
	r.add(checkSelfTest(ctx))
	return r
}

func (r *Report) add(results ...CheckResult) {
	r.Results = append(r.Results, results...)
}

func checkMockMode(opts Options) CheckResult {
	res := CheckResult{Name: "mode", Status: StatusOK, Detail: "real side effects enabled"}
	if opts.Mock {
		res.Detail = "mock mode, no side effects"
	}
	return res
}

func checkProviders(cfg *config.Config) CheckResult {
	res := CheckResult{Name: "providers", Status: StatusOK}
	res.Detail = fmt.Sprintf("hotword=%s stt=%s tts=%s",
		cfg.Providers.Hotword.Name, cfg.Providers.STT.Name, cfg.Providers.TTS.Name)
	if cfg.Providers.Hotword.Name == "" || cfg.Providers.STT.Name == "" || cfg.Providers.TTS.Name == "" {
		res.Status = StatusFail
		res.Detail = "a provider entry is empty; check the providers section"
	}
	return res
}

func checkTTSBinary(opts Options) CheckResult {
	res := CheckResult{Name: "espeak-ng"}
	if opts.Config.Providers.TTS.Name != "espeak" {
		res.Status = StatusSkip
		res.Detail = "tts provider is not espeak"
		return res
	}
	if path, err := exec.LookPath("espeak-ng"); err == nil {
		res.Status = StatusOK
		res.Detail = path
	} else {
		res.Status = StatusFail
		res.Detail = "espeak-ng not found in PATH"
	}
	return res
}

func checkVolumeBinary(opts Options) CheckResult {
	res := CheckResult{Name: "volume backend"}
	if opts.Mock {
		res.Status = StatusSkip
		res.Detail = "mock mode uses a simulated volume"
		return res
	}
	bin := "amixer"
	if runtime.GOOS == "darwin" {
		bin = "osascript"
	}
	if path, err := exec.LookPath(bin); err == nil {
		res.Status = StatusOK
		res.Detail = path
	} else {
		res.Status = StatusWarn
		res.Detail = fmt.Sprintf("%s not found; volume commands will fail", bin)
	}
	return res
}

func checkWhisperServer(ctx context.Context, opts Options) CheckResult {
	res := CheckResult{Name: "whisper server"}
	if opts.Config.Providers.STT.Name != "whisper" {
		res.Status = StatusSkip
		res.Detail = "stt provider is not whisper"
		return res
	}
	url := opts.Config.Providers.STT.BaseURL
	if url == "" {
		res.Status = StatusWarn
		res.Detail = "no base_url configured"
		return res
	}

	reqCtx, cancel := context.WithTimeout(ctx, opts.HTTPTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		res.Status = StatusFail
		res.Detail = err.Error()
		return res
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		res.Status = StatusFail
		res.Detail = fmt.Sprintf("unreachable: %v", err)
		return res
	}
	resp.Body.Close()
	res.Status = StatusOK
	res.Detail = fmt.Sprintf("%s answered %d", url, resp.StatusCode)
	return res
}

func checkSkillsDir(opts Options) CheckResult {
	res := CheckResult{Name: "skills dir"}
	dir := opts.SkillsDir
	if dir == "" {
		var err error
		dir, err = skill.DefaultManifestDir()
		if err != nil {
			res.Status = StatusWarn
			res.Detail = err.Error()
			return res
		}
	}
	manifests, err := skill.LoadManifestDir(dir)
	if err != nil {
		res.Status = StatusFail
		res.Detail = err.Error()
		return res
	}
	res.Status = StatusOK
	res.Detail = fmt.Sprintf("%s (%d manifest skills)", dir, len(manifests))
	return res
}

func checkSteam() CheckResult {
	res := CheckResult{Name: "steam"}
	if root := sysops.NewSteam().Root(); root != "" {
		res.Status = StatusOK
		res.Detail = root
	} else {
		res.Status = StatusWarn
		res.Detail = "no Steam installation found; steam commands will fail"
	}
	return res
}

// checkSelfTest routes and executes a canned utterance through the real
// router and registry in mock mode.
func checkSelfTest(ctx context.Context) CheckResult {
	res := CheckResult{Name: "self test"}

	registry := skill.NewRegistry()
	registry.Register(builtin.NewOpenApp(nil))
	registry.Register(builtin.NewVolume(nil))
	registry.Register(builtin.NewSteam(nil, nil))

	const utterance = "apri calcolatrice"
	intentName, entities := intent.NewRouter().Route(utterance)
	if intentName == "" {
		res.Status = StatusFail
		res.Detail = fmt.Sprintf("%q did not route to any intent", utterance)
		return res
	}
	out := registry.Execute(ctx, intentName, entities, &skill.Context{UserInput: utterance, Mock: true})
	if out == nil || !out.Success {
		res.Status = StatusFail
		res.Detail = fmt.Sprintf("%q routed to %s but execution failed", utterance, intentName)
		return res
	}
	res.Status = StatusOK
	res.Detail = fmt.Sprintf("%q → %s → %q", utterance, intentName, out.Message)
	return res
}
