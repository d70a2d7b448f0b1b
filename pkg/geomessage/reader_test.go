package geomessage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const feedFixture = `<geomessages>
  <geomessage>
    <_name>Alpha</_name>
    <_id>id-1</_id>
    <datetimevalid>04/06/2011 4:11:44 PM</datetimevalid>
  </geomessage>
  <geomessage>
    <_name>Bravo</_name>
    <_id>id-2</_id>
    <datetimevalid>04/06/2011 4:11:45 PM</datetimevalid>
  </geomessage>
  <geomessage>
    <_name>Charlie</_name>
    <_id>id-3</_id>
    <datetimevalid>04/06/2011 4:11:46 PM</datetimevalid>
  </geomessage>
</geomessages>
`

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestReader_OpenReturnsFirstRecordFieldNames(t *testing.T) {
	r, err := Open(writeFeed(t, feedFixture))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	want := []string{"_name", "_id", "datetimevalid"}
	if got := r.FieldNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("FieldNames() = %v, want %v", got, want)
	}
}

func TestReader_NextYieldsAllRecordsInOrder(t *testing.T) {
	r, err := Open(writeFeed(t, feedFixture))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var names []string
	for {
		msg, ok := r.Next()
		if !ok {
			break
		}
		name, _ := msg.Get("_name")
		names = append(names, name)
	}

	want := []string{"Alpha", "Bravo", "Charlie"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("record order = %v, want %v", names, want)
	}
	if !r.AtEnd() {
		t.Error("AtEnd() = false after exhausting the stream")
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil on clean end", r.Err())
	}
}

func TestReader_FirstRecordNotConsumedByOpen(t *testing.T) {
	r, err := Open(writeFeed(t, feedFixture))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	// Open already read ahead to the first record for field discovery,
	// but playback must still see it.
	msg, ok := r.Next()
	if !ok {
		t.Fatal("Next() returned no record")
	}
	if name, _ := msg.Get("_name"); name != "Alpha" {
		t.Errorf("first record _name = %q, want %q", name, "Alpha")
	}
}

func TestReader_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.xml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}

func TestReader_EmptyFile(t *testing.T) {
	_, err := Open(writeFeed(t, "<geomessages></geomessages>"))
	if err == nil {
		t.Fatal("expected error for file with no messages")
	}
	if !errors.Is(err, ErrNoMessages) {
		t.Errorf("error = %v, want ErrNoMessages", err)
	}
}

func TestReader_Rewind(t *testing.T) {
	r, err := Open(writeFeed(t, feedFixture))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	for {
		if _, ok := r.Next(); !ok {
			break
		}
	}

	if err := r.Rewind(); err != nil {
		t.Fatalf("Rewind() error = %v", err)
	}
	if r.AtEnd() {
		t.Error("AtEnd() = true after Rewind")
	}
	msg, ok := r.Next()
	if !ok {
		t.Fatal("Next() after Rewind returned no record")
	}
	if name, _ := msg.Get("_name"); name != "Alpha" {
		t.Errorf("first record after Rewind = %q, want %q", name, "Alpha")
	}
}

func TestReader_RoundTripThroughWriteFile(t *testing.T) {
	msgs := []Message{
		New([]Field{{Name: "_id", Value: "1"}, {Name: "_name", Value: "One"}}),
		New([]Field{{Name: "_id", Value: "2"}, {Name: "_name", Value: "Two"}}),
	}
	path := filepath.Join(t.TempDir(), "out.xml")
	if err := WriteFile(path, msgs); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, ok := r.Next()
	if !ok {
		t.Fatal("Next() returned no record")
	}
	if !reflect.DeepEqual(got.Fields(), msgs[0].Fields()) {
		t.Errorf("round-tripped fields = %v, want %v", got.Fields(), msgs[0].Fields())
	}
}
