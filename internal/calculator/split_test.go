package calculator

import (
	"math"
	"testing"

	"github.com/splitit/splitit/internal/models"
)

func TestEqualSplits(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		userIDs []string
		want    []float64
		wantErr bool
	}{
		{
			name:    "hundred three ways puts the extra cent first",
			total:   100.00,
			userIDs: []string{"a", "b", "c"},
			want:    []float64{33.34, 33.33, 33.33},
		},
		{
			name:    "even division stays even",
			total:   90.00,
			userIDs: []string{"a", "b", "c"},
			want:    []float64{30.00, 30.00, 30.00},
		},
		{
			name:    "two-way with an odd cent",
			total:   0.05,
			userIDs: []string{"a", "b"},
			want:    []float64{0.03, 0.02},
		},
		{
			name:    "single participant takes it all",
			total:   12.34,
			userIDs: []string{"a"},
			want:    []float64{12.34},
		},
		{
			name:    "awkward float representation",
			total:   4.02,
			userIDs: []string{"a", "b", "c"},
			want:    []float64{1.34, 1.34, 1.34},
		},
		{
			name:    "no participants",
			total:   10.00,
			userIDs: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := EqualSplits(tt.total, tt.userIDs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EqualSplits() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			var sum float64
			for i, s := range splits {
				sum += s.Amount
				if math.Abs(s.Amount-tt.want[i]) > 0.001 {
					t.Errorf("split %d = %.4f, want %.2f", i, s.Amount, tt.want[i])
				}
			}
			if math.Abs(sum-tt.total) > 0.001 {
				t.Errorf("splits sum to %.4f, want exactly %.2f", sum, tt.total)
			}
		})
	}
}

func TestCustomSplits(t *testing.T) {
	userIDs := []string{"a", "b", "c"}

	t.Run("accepts a balanced split", func(t *testing.T) {
		splits, err := CustomSplits(100, map[string]float64{"a": 60, "b": 40}, userIDs)
		if err != nil {
			t.Fatalf("CustomSplits failed: %v", err)
		}
		if len(splits) != 2 {
			t.Errorf("got %d splits, want 2 (zero amounts dropped)", len(splits))
		}
	})

	t.Run("accepts within one cent", func(t *testing.T) {
		if _, err := CustomSplits(100, map[string]float64{"a": 60, "b": 39.995}, userIDs); err != nil {
			t.Errorf("CustomSplits rejected a sum within tolerance: %v", err)
		}
	})

	t.Run("rejects an unbalanced split", func(t *testing.T) {
		if _, err := CustomSplits(100, map[string]float64{"a": 60, "b": 30}, userIDs); err == nil {
			t.Error("expected error for splits summing to 90 of 100")
		}
	})

	t.Run("rejects all-zero amounts", func(t *testing.T) {
		if _, err := CustomSplits(0, map[string]float64{}, userIDs); err == nil {
			t.Error("expected error when no split carries an amount")
		}
	})
}

func TestClassifySplits(t *testing.T) {
	tests := []struct {
		name   string
		splits []models.Split
		want   SplitMethod
	}{
		{
			name: "identical shares are equal",
			splits: []models.Split{
				{UserID: "a", Amount: 30},
				{UserID: "b", Amount: 30},
				{UserID: "c", Amount: 30},
			},
			want: SplitEqually,
		},
		{
			name: "rounding residue still counts as equal",
			splits: []models.Split{
				{UserID: "a", Amount: 33.34},
				{UserID: "b", Amount: 33.33},
				{UserID: "c", Amount: 33.33},
			},
			want: SplitEqually,
		},
		{
			name: "clearly different shares are unequal",
			splits: []models.Split{
				{UserID: "a", Amount: 70},
				{UserID: "b", Amount: 30},
			},
			want: SplitUnequally,
		},
		{
			name: "pairwise drift beyond a cent is unequal",
			splits: []models.Split{
				{UserID: "a", Amount: 33.32},
				{UserID: "b", Amount: 33.33},
				{UserID: "c", Amount: 33.35},
			},
			want: SplitUnequally,
		},
		{
			name:   "single split is equal",
			splits: []models.Split{{UserID: "a", Amount: 10}},
			want:   SplitEqually,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySplits(tt.splits); got != tt.want {
				t.Errorf("ClassifySplits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateSplits(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		splits  []models.Split
		wantErr bool
	}{
		{
			name:  "balanced splits pass",
			total: 90,
			splits: []models.Split{
				{UserID: "a", Amount: 30},
				{UserID: "b", Amount: 30},
				{UserID: "c", Amount: 30},
			},
		},
		{
			name:  "one cent off passes",
			total: 100,
			splits: []models.Split{
				{UserID: "a", Amount: 33.34},
				{UserID: "b", Amount: 33.33},
				{UserID: "c", Amount: 33.33},
			},
		},
		{
			name:    "empty splits fail",
			total:   10,
			splits:  nil,
			wantErr: true,
		},
		{
			name:  "duplicate user fails",
			total: 20,
			splits: []models.Split{
				{UserID: "a", Amount: 10},
				{UserID: "a", Amount: 10},
			},
			wantErr: true,
		},
		{
			name:  "negative share fails",
			total: 10,
			splits: []models.Split{
				{UserID: "a", Amount: 20},
				{UserID: "b", Amount: -10},
			},
			wantErr: true,
		},
		{
			name:  "sum off by more than a cent fails",
			total: 100,
			splits: []models.Split{
				{UserID: "a", Amount: 50},
				{UserID: "b", Amount: 45},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplits(tt.total, tt.splits)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSplits() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
