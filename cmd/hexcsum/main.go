package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/anupcshan/acutool/dump"
	"github.com/anupcshan/acutool/eeprom"
)

func sum16(b []byte) uint16 {
	var sum uint16
	for _, v := range b {
		sum += uint16(v)
	}
	return sum
}

// hexcsum prints the 16-bit additive checksum of a dump, as shown by most
// CH341A programmer software, plus one per region. Two reads of the same
// chip should agree.
func main() {
	flag.Parse()

	log.SetFlags(log.Lmicroseconds | log.Lshortfile)

	for _, path := range flag.Args() {
		img, err := dump.LoadImage(path)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("%s: %04X (%d bytes)\n", path, sum16(img.Bytes()), img.Len())
		for _, r := range eeprom.Regions() {
			data, err := img.Field(r)
			if err != nil {
				continue
			}
			fmt.Printf("  %-28s %04X\n", r.String(), sum16(data))
		}
	}
}
