/*
   FluxDrive - vintage floppy flux decoder
   Copyright (c) 2026, Alexander Vollschwitz

   This file is part of FluxDrive.

   FluxDrive is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   FluxDrive is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with FluxDrive. If not, see <http://www.gnu.org/licenses/>.
*/

package source

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jacobsa/go-serial/serial"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdrive/pkg/flux"
	"github.com/xelalexv/fluxdrive/pkg/flux/stream"
)

// adapter command bytes
const (
	cmdRead        = 0x01
	cmdRecalibrate = 0x02
)

//
var helloAdapter = []byte("hlof")
var helloDaemon = []byte("hlod")

/*
	Serial reads flux from a capture adapter attached to a serial port.
	After the hello handshake, each read request is a three byte command
	(cmdRead, track, side); the adapter answers with a little-endian 32
	bit length followed by that many bytes of capture stream, which parse
	under the same wire contract as stream files. Hardware seeks are
	stateful, so this source is not reentrant.
*/
type Serial struct {
	port io.ReadWriteCloser
}

//
func NewSerial(device string) (*Serial, error) {

	port, err := serial.Open(serial.OpenOptions{
		PortName:        device,
		BaudRate:        1000000,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open port '%s': %v", device, err)
	}

	s := &Serial{port: port}
	if err := s.syncOnHello(); err != nil {
		port.Close()
		return nil, err
	}
	return s, nil
}

// syncOnHello scans the inbound bytes for the adapter hello and answers
// with the daemon hello, leaving the connection at a command boundary.
func (s *Serial) syncOnHello() error {

	log.Info("syncing with capture adapter")
	hello := make([]byte, len(helloAdapter))

	for !bytes.Equal(hello, helloAdapter) {
		copy(hello, hello[1:])
		if _, err := io.ReadFull(s.port, hello[len(hello)-1:]); err != nil {
			return fmt.Errorf("error syncing with adapter: %v", err)
		}
	}

	if _, err := s.port.Write(helloDaemon); err != nil {
		return fmt.Errorf("error sending daemon hello: %v", err)
	}

	log.Info("synced with capture adapter")
	return nil
}

//
func (s *Serial) ReadFlux(track, side int) (*flux.Fluxmap, error) {

	if _, err := s.port.Write(
		[]byte{cmdRead, byte(track), byte(side)}); err != nil {
		return nil, fmt.Errorf("error requesting flux: %v", err)
	}

	head := make([]byte, 4)
	if _, err := io.ReadFull(s.port, head); err != nil {
		return nil, fmt.Errorf("error reading capture length: %v", err)
	}

	length := int(head[0]) | int(head[1])<<8 | int(head[2])<<16 |
		int(head[3])<<24

	log.WithFields(log.Fields{
		"track": track,
		"side":  side,
		"bytes": length,
	}).Debug("receiving capture stream")

	data := make([]byte, length)
	if _, err := io.ReadFull(s.port, data); err != nil {
		return nil, fmt.Errorf("error reading capture stream: %v", err)
	}

	return stream.Parse(data)
}

//
func (s *Serial) Recalibrate() error {
	if _, err := s.port.Write([]byte{cmdRecalibrate, 0, 0}); err != nil {
		return fmt.Errorf("error requesting recalibration: %v", err)
	}
	return nil
}

//
func (s *Serial) Reentrant() bool {
	return false
}

//
func (s *Serial) Close() error {
	return s.port.Close()
}
