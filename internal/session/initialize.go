package session

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/google/go-dap"
)

// ReadInitialize decodes the client's DAP initialize request, either as a
// bare JSON message or with its Content-Length header.
func ReadInitialize(r io.Reader) (dap.InitializeRequestArguments, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return dap.InitializeRequestArguments{}, fmt.Errorf("read initialize request: %w", err)
	}

	var msg dap.Message
	if framed := bytes.TrimLeft(data, " \t\r\n"); bytes.HasPrefix(framed, []byte("Content-Length")) {
		msg, err = dap.ReadProtocolMessage(bufio.NewReader(bytes.NewReader(framed)))
	} else {
		msg, err = dap.DecodeProtocolMessage(data)
	}
	if err != nil {
		return dap.InitializeRequestArguments{}, fmt.Errorf("decode initialize request: %w", err)
	}
	req, ok := msg.(*dap.InitializeRequest)
	if !ok {
		return dap.InitializeRequestArguments{}, fmt.Errorf("expected initialize request, got %T", msg)
	}
	return req.Arguments, nil
}
