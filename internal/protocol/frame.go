package protocol

import (
	"encoding/binary"
	"encoding/json"
	"io"
)

// MaxPayloadSize bounds a single frame's body. Anything larger is a protocol
// violation, not a legitimate trivia request.
const MaxPayloadSize = 1 << 20

// Request is one decoded frame from a client.
type Request struct {
	Kind Kind
	Body []byte
}

// ReadRequest reads one framed request: a 1-byte kind, a 4-byte big-endian
// payload length, then the payload itself.
func ReadRequest(r io.Reader) (Request, *Error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Request{}, E(ErrDisconnected, "")
		}
		return Request{}, E(ErrTransport, "Error receiving from socket")
	}

	kind := Kind(header[0])
	if !kind.Valid() || kind == KindDisconnect || kind == KindError {
		return Request{}, E(ErrInvalidRequest, "Invalid request ID")
	}

	length := binary.BigEndian.Uint32(header[1:])
	if length > MaxPayloadSize {
		return Request{}, E(ErrInvalidRequest, "Invalid request length")
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return Request{}, E(ErrDisconnected, "")
	}

	return Request{Kind: kind, Body: body}, nil
}

// WriteMessage marshals payload as JSON and writes it as one framed response.
func WriteMessage(w io.Writer, kind Kind, payload any) *Error {
	body, err := json.Marshal(payload)
	if err != nil {
		return E(ErrDecode, "Failed to serialize response")
	}

	frame := make([]byte, 5+len(body))
	frame[0] = byte(kind)
	binary.BigEndian.PutUint32(frame[1:5], uint32(len(body)))
	copy(frame[5:], body)

	if _, err := w.Write(frame); err != nil {
		return E(ErrDisconnected, "")
	}
	return nil
}

// Decode unmarshals a request body into dst.
func Decode(body []byte, dst any) *Error {
	if err := json.Unmarshal(body, dst); err != nil {
		return E(ErrDecode, "")
	}
	return nil
}
