package truncate_test

import (
	"testing"

	"github.com/ezerfernandes/tagfix/internal/document"
	"github.com/ezerfernandes/tagfix/internal/truncate"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var tail = []string{"        </div>", "      )}", "    </div>", "  );", "};", "", "export default CustomersPage;"}

func TestApply(t *testing.T) {
	t.Parallel()

	input := document.Document{
		"const CustomersPage = () => {",
		"  return (",
		"      )}",
		"    <div>",
		"      )}</div>",
		"      )}",
		"garbage",
		"more garbage",
	}

	tests := []struct {
		name      string
		opts      truncate.Options
		want      document.Document
		line      int
		discarded int
		reason    error
	}{
		{
			name:      "trigger_after_threshold",
			opts:      truncate.Options{Line: 4, Contains: []string{")}"}, Excludes: []string{"</div>"}, Tail: tail},
			want:      append(append(document.Document{}, input[:5]...), tail...),
			line:      6,
			discarded: 3,
		},
		{
			name:      "threshold_is_trigger",
			opts:      truncate.Options{Line: 7, Tail: []string{"};"}},
			want:      append(append(document.Document{}, input[:6]...), "};"),
			line:      7,
			discarded: 2,
		},
		{
			name:   "no_trigger",
			opts:   truncate.Options{Line: 2, Contains: []string{"export"}, Tail: tail},
			want:   input,
			reason: truncate.ErrNoTrigger,
		},
		{
			name:   "threshold_past_end",
			opts:   truncate.Options{Line: 100, Tail: tail},
			want:   input,
			reason: truncate.ErrNoTrigger,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, res, err := truncate.Apply(input, tt.opts)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}

			require.Equal(t, tt.line, res.Line)
			require.Equal(t, tt.discarded, res.Discarded)
			require.Equal(t, tt.reason == nil, res.Applied())
			require.ErrorIs(t, res.Err(), tt.reason)
		})
	}
}

func TestApplyInvalidLine(t *testing.T) {
	t.Parallel()

	_, _, err := truncate.Apply(document.Document{"a"}, truncate.Options{Line: 0})
	require.ErrorIs(t, err, truncate.ErrInvalidOptions)
}
