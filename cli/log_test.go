package cli

import "testing"

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"render", "--log-level", "debug", "--log-format", "json", "a.conf"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=warn", "--log-caller", "--no-log-pretty"},
			want: logConfig{Level: "warn", Caller: true},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-caller=false", "--no-log-pretty=false"},
			want: logConfig{Pretty: true},
		},
		{
			name: "missing value",
			args: []string{"--log-level", "--mode", "light"},
			want: logConfig{Pretty: true},
		},
		{
			name: "bad boolean ignored",
			args: []string{"--log-caller=maybe"},
			want: logConfig{Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, f, tt.want)
			}
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	vars := (&logConfig{}).vars()

	if got, want := vars["logLevelEnum"], "trace,debug,info,warn,error"; got != want {
		t.Errorf("logLevelEnum = %q, want %q", got, want)
	}

	if got, want := vars["logFormatEnum"], "text,json"; got != want {
		t.Errorf("logFormatEnum = %q, want %q", got, want)
	}
}
