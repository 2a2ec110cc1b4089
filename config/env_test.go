package config

import (
	"testing"
	"time"
)

// helper builds a lookup function from a map.
func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// --- test structs ---

// endpointConfig mirrors the shape of gomq.Config: scalar knobs plus
// interface fields the loader must skip.
type endpointConfig struct {
	SendHWM   int
	RecvHWM   int
	Linger    time.Duration
	Marshaler interface{ DataContentType() string }
	Logger    interface{ Debug(string, ...any) }
}

type innerQueue struct {
	Depth      int
	BufferSize int
}

type nestedConfig struct {
	BufferSize int
	TaskQueue  innerQueue
	Linger     time.Duration
}

type embeddedBase struct {
	SendHWM int
	RecvHWM int
}

type configWithEmbed struct {
	embeddedBase
	BufferSize int
	Linger     time.Duration
}

type allTypesConfig struct {
	S   string
	B   bool
	I   int
	I64 int64
	U   uint
	U32 uint32
	F64 float64
	D   time.Duration
}

// --- Tests ---

func TestLoad_EndpointConfig(t *testing.T) {
	l := Loader{
		lookup: envMap(map[string]string{
			"GOMQ_EVENTS_SEND_HWM": "5000",
			"GOMQ_EVENTS_RECV_HWM": "2000",
			"GOMQ_EVENTS_LINGER":   "250ms",
		}),
	}

	var cfg endpointConfig
	if err := l.Load("events", &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.SendHWM != 5000 {
		t.Errorf("SendHWM = %d, want 5000", cfg.SendHWM)
	}
	if cfg.RecvHWM != 2000 {
		t.Errorf("RecvHWM = %d, want 2000", cfg.RecvHWM)
	}
	if cfg.Linger != 250*time.Millisecond {
		t.Errorf("Linger = %v, want 250ms", cfg.Linger)
	}
	if cfg.Marshaler != nil || cfg.Logger != nil {
		t.Error("interface fields should remain nil")
	}
}

func TestLoad_NamedNestedStruct(t *testing.T) {
	l := Loader{
		lookup: envMap(map[string]string{
			"GOMQ_WORKER_BUFFER_SIZE":            "100",
			"GOMQ_WORKER_TASK_QUEUE_DEPTH":       "4",
			"GOMQ_WORKER_TASK_QUEUE_BUFFER_SIZE": "200",
			"GOMQ_WORKER_LINGER":                 "30s",
		}),
	}

	var cfg nestedConfig
	if err := l.Load("worker", &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.BufferSize != 100 {
		t.Errorf("BufferSize = %d, want 100", cfg.BufferSize)
	}
	if cfg.TaskQueue.Depth != 4 {
		t.Errorf("TaskQueue.Depth = %d, want 4", cfg.TaskQueue.Depth)
	}
	if cfg.TaskQueue.BufferSize != 200 {
		t.Errorf("TaskQueue.BufferSize = %d, want 200", cfg.TaskQueue.BufferSize)
	}
	if cfg.Linger != 30*time.Second {
		t.Errorf("Linger = %v, want 30s", cfg.Linger)
	}
}

func TestLoad_EmbeddedStruct(t *testing.T) {
	l := Loader{
		lookup: envMap(map[string]string{
			// Embedded fields are flattened — no "EMBEDDED_BASE" segment.
			"GOMQ_SINK_SEND_HWM":    "3",
			"GOMQ_SINK_RECV_HWM":    "50",
			"GOMQ_SINK_BUFFER_SIZE": "100",
			"GOMQ_SINK_LINGER":      "2s",
		}),
	}

	var cfg configWithEmbed
	if err := l.Load("sink", &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.SendHWM != 3 {
		t.Errorf("SendHWM = %d, want 3", cfg.SendHWM)
	}
	if cfg.RecvHWM != 50 {
		t.Errorf("RecvHWM = %d, want 50", cfg.RecvHWM)
	}
	if cfg.BufferSize != 100 {
		t.Errorf("BufferSize = %d, want 100", cfg.BufferSize)
	}
	if cfg.Linger != 2*time.Second {
		t.Errorf("Linger = %v, want 2s", cfg.Linger)
	}
}

func TestLoad_AllTypes(t *testing.T) {
	l := Loader{
		lookup: envMap(map[string]string{
			"GOMQ_TYPES_S":   "hello",
			"GOMQ_TYPES_B":   "true",
			"GOMQ_TYPES_I":   "-42",
			"GOMQ_TYPES_I64": "-64",
			"GOMQ_TYPES_U":   "42",
			"GOMQ_TYPES_U32": "32",
			"GOMQ_TYPES_F64": "2.718",
			"GOMQ_TYPES_D":   "500ms",
		}),
	}

	var cfg allTypesConfig
	if err := l.Load("types", &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.S != "hello" || cfg.B != true || cfg.I != -42 || cfg.I64 != -64 {
		t.Errorf("string/bool/int fields wrong: %+v", cfg)
	}
	if cfg.U != 42 || cfg.U32 != 32 || cfg.F64 != 2.718 {
		t.Errorf("uint/float fields wrong: %+v", cfg)
	}
	if cfg.D != 500*time.Millisecond {
		t.Errorf("D = %v, want 500ms", cfg.D)
	}
}

func TestLoad_CustomPrefix(t *testing.T) {
	l := Loader{
		Prefix: "MYAPP",
		lookup: envMap(map[string]string{
			"MYAPP_EVENTS_SEND_HWM": "12",
		}),
	}

	var cfg endpointConfig
	if err := l.Load("events", &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.SendHWM != 12 {
		t.Errorf("SendHWM = %d, want 12", cfg.SendHWM)
	}
}

func TestLoad_ScopeNormalization(t *testing.T) {
	tests := []struct {
		scope string
		key   string
	}{
		{"task-feed", "GOMQ_TASK_FEED_SEND_HWM"},
		{"My Scope", "GOMQ_MY_SCOPE_SEND_HWM"},
		{"UPPER", "GOMQ_UPPER_SEND_HWM"},
		{"with_underscore", "GOMQ_WITH_UNDERSCORE_SEND_HWM"},
	}

	for _, tt := range tests {
		t.Run(tt.scope, func(t *testing.T) {
			l := Loader{
				lookup: envMap(map[string]string{
					tt.key: "7",
				}),
			}

			var cfg endpointConfig
			if err := l.Load(tt.scope, &cfg); err != nil {
				t.Fatal(err)
			}
			if cfg.SendHWM != 7 {
				t.Errorf("SendHWM = %d, want 7 (key: %s)", cfg.SendHWM, tt.key)
			}
		})
	}
}

func TestLoad_MissingEnvVarsPreserveDefaults(t *testing.T) {
	l := Loader{
		lookup: envMap(map[string]string{
			// Only set SendHWM, leave RecvHWM unset.
			"GOMQ_EVENTS_SEND_HWM": "5",
		}),
	}

	cfg := endpointConfig{RecvHWM: 42}
	if err := l.Load("events", &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.SendHWM != 5 {
		t.Errorf("SendHWM = %d, want 5", cfg.SendHWM)
	}
	if cfg.RecvHWM != 42 {
		t.Errorf("RecvHWM = %d, want 42 (preserved default)", cfg.RecvHWM)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"int", map[string]string{"GOMQ_S_I": "not_a_number"}},
		{"duration", map[string]string{"GOMQ_S_D": "bad"}},
		{"bool", map[string]string{"GOMQ_S_B": "not_bool"}},
		{"float", map[string]string{"GOMQ_S_F64": "not_float"}},
		{"uint", map[string]string{"GOMQ_S_U": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Loader{lookup: envMap(tt.env)}
			var cfg allTypesConfig
			if err := l.Load("s", &cfg); err == nil {
				t.Fatalf("expected error for invalid %s", tt.name)
			}
		})
	}
}

func TestLoad_NotAPointer(t *testing.T) {
	l := Loader{lookup: envMap(nil)}
	if err := l.Load("events", endpointConfig{}); err == nil {
		t.Fatal("expected error for non-pointer dst")
	}
}

func TestLoad_NotAStruct(t *testing.T) {
	l := Loader{lookup: envMap(nil)}
	n := 42
	if err := l.Load("events", &n); err == nil {
		t.Fatal("expected error for non-struct dst")
	}
}

func TestKeys_EndpointConfig(t *testing.T) {
	keys := Keys("events", endpointConfig{})
	want := []string{
		"GOMQ_EVENTS_SEND_HWM",
		"GOMQ_EVENTS_RECV_HWM",
		"GOMQ_EVENTS_LINGER",
	}
	assertKeys(t, keys, want)
}

func TestKeys_NestedConfig(t *testing.T) {
	keys := Keys("worker", nestedConfig{})
	want := []string{
		"GOMQ_WORKER_BUFFER_SIZE",
		"GOMQ_WORKER_TASK_QUEUE_DEPTH",
		"GOMQ_WORKER_TASK_QUEUE_BUFFER_SIZE",
		"GOMQ_WORKER_LINGER",
	}
	assertKeys(t, keys, want)
}

func TestKeys_CustomPrefix(t *testing.T) {
	l := Loader{Prefix: "APP"}
	keys := l.Keys("feed", endpointConfig{})
	want := []string{
		"APP_FEED_SEND_HWM",
		"APP_FEED_RECV_HWM",
		"APP_FEED_LINGER",
	}
	assertKeys(t, keys, want)
}

func TestLoad_PackageLevelFunc(t *testing.T) {
	// This test uses real env vars.
	t.Setenv("GOMQ_PKG_SEND_HWM", "99")

	var cfg endpointConfig
	if err := Load("pkg", &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.SendHWM != 99 {
		t.Errorf("SendHWM = %d, want 99", cfg.SendHWM)
	}
}

func TestToUpperSnake(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"BufferSize", "BUFFER_SIZE"},
		{"SendHWM", "SEND_HWM"},
		{"RecvHWM", "RECV_HWM"},
		{"Linger", "LINGER"},
		{"TaskQueue", "TASK_QUEUE"},
		{"URLPath", "URL_PATH"},
		{"HTTPClient", "HTTP_CLIENT"},
		{"ID", "ID"},
		{"I8", "I8"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := toUpperSnake(tt.in)
			if got != tt.want {
				t.Errorf("toUpperSnake(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeScope(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"events", "EVENTS"},
		{"task-feed", "TASK_FEED"},
		{"My Scope", "MY_SCOPE"},
		{"UPPER", "UPPER"},
		{"with_underscore", "WITH_UNDERSCORE"},
		{"special!@#chars", "SPECIALCHARS"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := normalizeScope(tt.in)
			if got != tt.want {
				t.Errorf("normalizeScope(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func assertKeys(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("got %d keys, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
