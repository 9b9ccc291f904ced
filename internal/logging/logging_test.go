package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetOutputRedirectsHeldLoggers(t *testing.T) {
	log := Logger(Room)

	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	if err := SetLevel("info"); err != nil {
		t.Fatal(err)
	}

	log.Infof("room %s created", "abc")
	if !strings.Contains(buf.String(), "ROOM: room abc created") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	defer SetLevel("info")

	if err := SetLevel("warn"); err != nil {
		t.Fatal(err)
	}
	Logger(Game).Infof("hidden")
	Logger(Game).Warnf("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("output = %q", out)
	}

	if err := SetLevel("loud"); err == nil {
		t.Fatal("unknown level accepted")
	}
	if ValidLevel("loud") || !ValidLevel("debug") {
		t.Fatal("ValidLevel disagrees with SetLevel")
	}
}

func TestUnknownSubsystemDisabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Logger("NOPE").Errorf("dropped")
	if buf.Len() != 0 {
		t.Fatalf("output = %q", buf.String())
	}
	if got := strings.Join(Subsystems(), ","); got != "CLNT,GAME,ROOM,SRVR" {
		t.Fatalf("subsystems = %s", got)
	}
}
