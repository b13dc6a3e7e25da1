package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/wayfinder/pkg/util"
)

// snapshot format (bzip2 compressed text):
//
//	numNodes numEdges
//	id lat lon        x numNodes
//	from to weight    x numEdges
//
// ids must not contain whitespace. the snapshot stores the raw records, so
// reading it back goes through BuildGraph again and reapplies every
// ingestion invariant.

func WriteSnapshot(filename string, nodes []RawNode, adjacency map[string][]RawArc) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	numEdges := 0
	for _, arcs := range adjacency {
		numEdges += len(arcs)
	}

	fmt.Fprintf(w, "%d %d\n", len(nodes), numEdges)

	for _, n := range nodes {
		id := util.NormalizeID(n.ID)
		if strings.ContainsAny(id, " \t\n") {
			return fmt.Errorf("node id %q contains whitespace, cannot be snapshotted", id)
		}
		latF := strconv.FormatFloat(n.Lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(n.Lon, 'f', -1, 64)
		fmt.Fprintf(w, "%s %s %s\n", id, latF, lonF)
	}

	for from, arcs := range adjacency {
		if strings.ContainsAny(from, " \t\n") {
			return fmt.Errorf("node id %q contains whitespace, cannot be snapshotted", from)
		}
		for _, arc := range arcs {
			to := util.NormalizeID(arc.To)
			weightF := strconv.FormatFloat(arc.Weight, 'f', -1, 64)
			fmt.Fprintf(w, "%s %s %s\n", from, to, weightF)
		}
	}

	return w.Flush()
}

func ReadSnapshot(filename string) ([]RawNode, map[string][]RawArc, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	header, err := readLine(br)
	if err != nil {
		return nil, nil, err
	}
	counts := strings.Fields(header)
	if len(counts) != 2 {
		return nil, nil, fmt.Errorf("malformed snapshot header %q", header)
	}
	numNodes, err := strconv.Atoi(counts[0])
	if err != nil {
		return nil, nil, err
	}
	numEdges, err := strconv.Atoi(counts[1])
	if err != nil {
		return nil, nil, err
	}

	nodes := make([]RawNode, 0, numNodes)
	for i := 0; i < numNodes; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, nil, fmt.Errorf("malformed node line %q", line)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, err
		}
		lon, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, NewRawNode(fields[0], lat, lon))
	}

	adjacency := make(map[string][]RawArc)
	for i := 0; i < numEdges; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, nil, fmt.Errorf("malformed edge line %q", line)
		}
		weight, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, nil, err
		}
		adjacency[fields[0]] = append(adjacency[fields[0]], NewRawArc(fields[1], weight))
	}

	return nodes, adjacency, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			// last line without trailing newline
		} else {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
