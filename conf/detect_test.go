package conf

import "testing"

func TestUsesEnvironments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "default section",
			text: "default:\n  data: {}\n",
			want: true,
		},
		{
			name: "conventional name without default",
			text: "production:\n  data: {}\n",
			want: true,
		},
		{
			name: "staging only",
			text: "staging:\n  data: {}\n",
			want: true,
		},
		{
			name: "flat document",
			text: "name: demo\nversion: 1\n",
			want: false,
		},
		{
			name: "custom environment name alone is flat",
			text: "qa:\n  data: {}\n",
			want: false,
		},
		{
			// A flat document using a conventional name for unrelated
			// purposes is classified as environment-sectioned. The
			// heuristic is positional on names, not on shape.
			name: "conventional name as plain data",
			text: "test: some value\nother: 1\n",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.text)
			if got := UsesEnvironments(root); got != tt.want {
				t.Errorf("UsesEnvironments = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUsesEnvironmentsNonMapping(t *testing.T) {
	if UsesEnvironments(nil) {
		t.Error("UsesEnvironments(nil) = true")
	}

	if UsesEnvironments(NewSequence(NewString("default"))) {
		t.Error("UsesEnvironments(sequence) = true")
	}
}
