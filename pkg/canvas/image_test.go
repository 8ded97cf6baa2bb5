package canvas

import (
	"errors"
	"fmt"
	"testing"
)

// recordingSink records every blit it receives.
type recordingSink struct {
	w, h  int
	blits []blit
}

type blit struct {
	x, y, w, h int
	pixels     []uint16
}

func (s *recordingSink) Size() (int, int) { return s.w, s.h }

func (s *recordingSink) BlitRGB565(x, y int, pixels []uint16, w, h int) {
	copied := make([]uint16, len(pixels))
	copy(copied, pixels)
	s.blits = append(s.blits, blit{x: x, y: y, w: w, h: h, pixels: copied})
}

func TestImage_Allocate_SegmentAccounting(t *testing.T) {
	tests := []struct {
		name        string
		w, h        int
		segHeight   int
		maxSegments int
		wantCount   int
		wantHeights []int
	}{
		{"exact multiple", 10, 40, 20, 12, 2, []int{20, 20}},
		{"short last segment", 10, 45, 20, 12, 3, []int{20, 20, 5}},
		{"single short segment", 10, 15, 20, 12, 1, []int{15}},
		{"single full segment", 10, 20, 20, 12, 1, []int{20}},
		{"one row", 10, 1, 20, 12, 1, []int{1}},
		{"clipped to max", 10, 500, 20, 12, 12, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var img Image
			err := img.Allocate(tt.w, tt.h, AllocOptions{
				SegmentHeight: tt.segHeight,
				MaxSegments:   tt.maxSegments,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := len(img.Segments()); got != tt.wantCount {
				t.Fatalf("segment count = %d, want %d", got, tt.wantCount)
			}
			for i, wantH := range tt.wantHeights {
				seg := img.Segments()[i]
				if seg.Width() != tt.w || seg.Height() != wantH {
					t.Errorf("segment %d = %dx%d, want %dx%d",
						i, seg.Width(), seg.Height(), tt.w, wantH)
				}
			}
		})
	}
}

func TestImage_Allocate_Clipped(t *testing.T) {
	var img Image
	if err := img.Allocate(10, 500, AllocOptions{SegmentHeight: 20, MaxSegments: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !img.Clipped() {
		t.Error("Clipped() = false for an image taller than maxSegments*segHeight")
	}

	if err := img.Allocate(10, 240, AllocOptions{SegmentHeight: 20, MaxSegments: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Clipped() {
		t.Error("Clipped() = true for an image exactly at the bound")
	}
}

func TestImage_Allocate_FailureReleasesAll(t *testing.T) {
	failAt := 2 // third allocation fails
	calls := 0
	alloc := func(w, h int) (*Canvas, error) {
		if calls == failAt {
			return nil, errors.New("injected failure")
		}
		calls++
		return New(w, h)
	}

	var img Image
	err := img.Allocate(10, 100, AllocOptions{SegmentHeight: 20, MaxSegments: 12, Alloc: alloc})
	if err == nil {
		t.Fatal("expected allocation error, got nil")
	}
	if img.Format() != FormatNone {
		t.Errorf("format = %v after failed allocation, want FormatNone", img.Format())
	}
	if len(img.Segments()) != 0 {
		t.Errorf("segments retained after failed allocation: %d", len(img.Segments()))
	}
	if img.Width() != 0 || img.Height() != 0 {
		t.Errorf("dimensions = %dx%d after failed allocation, want 0x0", img.Width(), img.Height())
	}
}

func TestImage_DimensionsGatedByFormat(t *testing.T) {
	var img Image
	if img.Width() != 0 || img.Height() != 0 {
		t.Errorf("empty image dimensions = %dx%d, want 0x0", img.Width(), img.Height())
	}

	if err := img.Allocate(13, 37, AllocOptions{SegmentHeight: 20, MaxSegments: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width() != 13 || img.Height() != 37 {
		t.Errorf("dimensions = %dx%d, want 13x37", img.Width(), img.Height())
	}

	img.Reset()
	if img.Format() != FormatNone {
		t.Errorf("format after Reset = %v, want FormatNone", img.Format())
	}
	if img.Width() != 0 || img.Height() != 0 || len(img.Segments()) != 0 {
		t.Error("Reset did not empty the image")
	}
}

func TestImage_Draw_StackingOrder(t *testing.T) {
	var img Image
	if err := img.Allocate(4, 45, AllocOptions{SegmentHeight: 20, MaxSegments: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sink := &recordingSink{w: 100, h: 100}
	img.Draw(sink, 7, 3)

	if len(sink.blits) != 3 {
		t.Fatalf("blit count = %d, want 3", len(sink.blits))
	}
	// y advances by the fixed segment height even past a short segment.
	wantY := []int{3, 23, 43}
	wantH := []int{20, 20, 5}
	for i, b := range sink.blits {
		if b.x != 7 || b.y != wantY[i] || b.w != 4 || b.h != wantH[i] {
			t.Errorf("blit %d = (%d,%d) %dx%d, want (7,%d) 4x%d",
				i, b.x, b.y, b.w, b.h, wantY[i], wantH[i])
		}
	}
}

func TestImage_Draw_EmptyImageDrawsNothing(t *testing.T) {
	var img Image
	sink := &recordingSink{w: 10, h: 10}
	img.Draw(sink, 0, 0)
	if len(sink.blits) != 0 {
		t.Errorf("empty image produced %d blits", len(sink.blits))
	}
}

func TestRowWriter_RolloverAndHalt(t *testing.T) {
	var img Image
	if err := img.Allocate(3, 5, AllocOptions{SegmentHeight: 2, MaxSegments: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Segments: 2+2+1 rows of width 3.
	w := img.RowWriter()
	for row := 0; row < 5; row++ {
		pixels := make([]uint16, 3)
		for col := range pixels {
			pixels[col] = uint16(row*10 + col)
		}
		w.WriteRow(pixels)
	}
	if !w.Done() {
		t.Error("writer not done after filling every segment")
	}

	// Rows land in the right segment at the right offset.
	for row := 0; row < 5; row++ {
		seg := img.Segments()[row/2]
		for col := 0; col < 3; col++ {
			want := uint16(row*10 + col)
			if got := seg.At(col, row%2); got != want {
				t.Errorf("segment pixel (%d, row %d) = %d, want %d", col, row, got, want)
			}
		}
	}

	// Writing past the last segment is a no-op, not a panic.
	w.WriteRow([]uint16{99, 99, 99})
	if got := img.Segments()[2].At(0, 0); got != 40 {
		t.Errorf("overflow write corrupted data: %d", got)
	}
}

func TestRowWriter_StopsAtCount(t *testing.T) {
	var img Image
	if err := img.Allocate(2, 100, AllocOptions{SegmentHeight: 10, MaxSegments: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := img.RowWriter()
	rows := 0
	for !w.Done() {
		w.WriteRow([]uint16{1, 1})
		rows++
		if rows > 100 {
			t.Fatal("writer never reported done")
		}
	}
	// 3 segments x 10 rows accept exactly 30 rows before the halt.
	if rows != 30 {
		t.Errorf("rows accepted = %d, want 30", rows)
	}
}

func ExampleImage_Draw() {
	var img Image
	_ = img.Allocate(2, 3, AllocOptions{SegmentHeight: 2, MaxSegments: 4})
	sink := NewRGBASink(2, 3)
	img.Draw(sink, 0, 0)
	fmt.Println(img.Width(), img.Height())
	// Output: 2 3
}
