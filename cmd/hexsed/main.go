package main

import (
	"flag"
	"log"
	"os"

	"github.com/anupcshan/acutool/eeprom"
	"github.com/anupcshan/acutool/intelhex"
	"github.com/anupcshan/acutool/membuf"
)

// hexsed applies a patch profile to an Intel HEX dump and writes it back with
// the input's record framing, so a diff of the two hex files only shows the
// patched records.
func main() {
	in := flag.String("in", "", "Input hex file")
	out := flag.String("out", "", "Output hex file")
	profileName := flag.String("profile", "unlock", "Patch profile: unlock or lock")

	flag.Parse()

	log.SetFlags(log.Lmicroseconds | log.Lshortfile)

	profile, err := eeprom.ProfileByName(*profileName)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}

	buf := membuf.NewMemBuffer()
	parser := intelhex.NewParser(f, buf, intelhex.WithDisableCompactOutput())
	for parser.HasNext() {
		if err := parser.ReadRecord(); err != nil {
			log.Fatal(err)
		}
	}
	_ = f.Close()

	patched, err := eeprom.ApplyProfile(eeprom.New(buf.Bytes(0)), profile)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := buf.WriteAt(patched.Bytes(), 0); err != nil {
		log.Fatal(err)
	}

	outF, err := os.OpenFile(*out, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		log.Fatal(err)
	}

	encoder := intelhex.NewEncoder(buf, outF, parser.Records)
	if err := encoder.EncodeRecords(); err != nil {
		log.Fatal(err)
	}
	_ = outF.Close()

	log.Printf("Applied %s profile: %s -> %s", profile.Name, *in, *out)
}
