package singleinstance

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"strconv"
	"time"
)

type tcpClient struct{}

func newTCPClient() Client { return &tcpClient{} }

func (c *tcpClient) TryCapture(ctx context.Context, wantImage bool) (bool, Result, error) {
	dialTimeout := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			dialTimeout = d
		}
	}
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if !ping(addr, dialTimeout) {
			continue
		}
		conn, err := net.DialTimeout("tcp", addr, dialTimeout)
		if err != nil {
			continue
		}
		res, err := runRequest(conn, wantImage)
		conn.Close()
		return true, res, err
	}
	return false, Result{}, nil
}

func runRequest(conn net.Conn, wantImage bool) (Result, error) {
	w := bufio.NewWriter(conn)
	line := rectRequest
	if wantImage {
		line = captureRequest
	}
	if _, err := w.WriteString(line); err != nil {
		return Result{}, err
	}
	if err := w.Flush(); err != nil {
		return Result{}, err
	}

	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return Result{}, err
	}
	switch status {
	case resultStatus:
		header, err := br.ReadString('\n')
		if err != nil {
			return Result{}, err
		}
		var res Result
		if err := json.Unmarshal([]byte(header), &res); err != nil {
			return Result{}, err
		}
		if wantImage && !res.Cancelled {
			png, err := io.ReadAll(br)
			if err != nil {
				return Result{}, err
			}
			res.PNG = png
		}
		return res, nil
	case errorStatus:
		msg, _ := io.ReadAll(br)
		return Result{}, errors.New(string(msg))
	default:
		return Result{}, errors.New("unexpected response " + strconv.Quote(status))
	}
}
