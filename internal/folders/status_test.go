package folders

import "testing"

func TestDeriveStatusEmptyFolder(t *testing.T) {
	status, completion := DeriveStatus(nil)
	if status != StatusOngoing || completion != 0 {
		t.Fatalf("empty folder: got %s/%d, want ongoing/0", status, completion)
	}
}

func TestDeriveStatusTruncatedMean(t *testing.T) {
	status, completion := DeriveStatus([]DocumentStat{
		{Completeness: 40},
		{Completeness: 60},
		{Completeness: 100},
	})
	if completion != 66 {
		t.Fatalf("completion: got %d, want 66", completion)
	}
	if status != StatusOngoing {
		t.Fatalf("status: got %s, want ongoing", status)
	}
}

func TestDeriveStatusLadder(t *testing.T) {
	cases := []struct {
		completeness []int
		want         string
	}{
		{[]int{100, 100}, StatusCompleted},
		{[]int{95}, StatusCompleted},
		{[]int{94}, StatusValid},
		{[]int{70}, StatusValid},
		{[]int{69}, StatusOngoing},
		{[]int{10, 20}, StatusOngoing},
	}
	for _, tc := range cases {
		stats := make([]DocumentStat, len(tc.completeness))
		for i, c := range tc.completeness {
			stats[i] = DocumentStat{Completeness: c}
		}
		if status, _ := DeriveStatus(stats); status != tc.want {
			t.Fatalf("%v: got %s, want %s", tc.completeness, status, tc.want)
		}
	}
}

func TestDeriveStatusFraudWinsOverCompletion(t *testing.T) {
	status, completion := DeriveStatus([]DocumentStat{
		{Completeness: 100},
		{Completeness: 100, Fraud: true},
	})
	if status != StatusFraud {
		t.Fatalf("status: got %s, want fraud", status)
	}
	if completion != 100 {
		t.Fatalf("completion still computed: got %d, want 100", completion)
	}
}
