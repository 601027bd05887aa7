package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/server"
)

const readBufferSize = 1024

func main() {
	listener, err := net.Listen("tcp", ":42069")
	if err != nil {
		fmt.Fprintln(os.Stderr, "listen:", err)
		os.Exit(1)
	}
	defer listener.Close()
	fmt.Println("Listening on port 42069...")

	logger, err := server.NewDefaultLogger("info")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	handler := server.DefaultHandler{Log: logger}
	buf := make([]byte, readBufferSize)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			fmt.Println("Accept error:", err)
			continue
		}

		handleConnection(conn, handler, buf)
	}
}

func handleConnection(conn net.Conn, handler server.Handler, buf []byte) {
	defer conn.Close()

	req, err := request.FromReader(conn, buf)
	if err != nil {
		var perr request.ParseError
		if !errors.As(err, &perr) {
			if !errors.Is(err, io.EOF) {
				fmt.Println("read error:", err)
			}
			return
		}

		if err := handler.HandleBadRequest(perr).Send(conn); err != nil {
			fmt.Println("send error:", err)
		}
		return
	}

	printRequest(os.Stdout, req)

	if err := handler.HandleRequest(req).Send(conn); err != nil {
		fmt.Println("send error:", err)
	}
}

func printRequest(w io.Writer, req *request.Request) {
	fmt.Fprintln(w, "Request Line")
	fmt.Fprintf(w, "Method: %s\n", req.Method())
	fmt.Fprintf(w, "Path: %s\n", req.Path())

	if raw, ok := req.QueryString(); ok {
		fmt.Fprintf(w, "Query: %s\n", raw)
		q := req.Query()
		for _, key := range q.Keys() {
			v, _ := q.Get(key)
			for _, value := range v.Strings() {
				fmt.Fprintf(w, "  %s = %s\n", key, value)
			}
		}
	}
}
