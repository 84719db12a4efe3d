package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"dominion/internal/boundary"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/qedus/osmpbf"
)

// boundaryRelation is one administrative boundary relation collected from
// the PBF stream
type boundaryRelation struct {
	ID        int64
	Name      string
	OuterWays []int64
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: osm-boundary-parser <path-to-osm.pbf> [output.geojson]")
	}

	osmFile := os.Args[1]
	outputFile := "boundaries.geojson"
	if len(os.Args) > 2 {
		outputFile = os.Args[2]
	}

	log.Printf("Processing OSM file: %s", osmFile)

	file, err := os.Open(osmFile)
	if err != nil {
		log.Fatalf("Failed to open OSM file: %v", err)
	}
	defer file.Close()

	// First pass: collect all node coordinates
	nodes, err := collectNodes(file)
	if err != nil {
		log.Fatalf("Failed to collect nodes: %v", err)
	}

	// Rewind for the second pass
	if _, err := file.Seek(0, 0); err != nil {
		log.Fatalf("Failed to rewind OSM file: %v", err)
	}

	// Second pass: ways come before relations in the stream, so one pass
	// collects both
	ways, relations, err := collectWaysAndRelations(file)
	if err != nil {
		log.Fatalf("Failed to collect ways and relations: %v", err)
	}
	log.Printf("Collected %d ways and %d boundary relations", len(ways), len(relations))

	fc := assembleBoundaries(relations, ways, nodes)

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode GeoJSON: %v", err)
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}

	log.Printf("Wrote %d boundaries to %s", len(fc.Features), outputFile)
}

func newDecoder(file *os.File) *osmpbf.Decoder {
	decoder := osmpbf.NewDecoder(file)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)
	decoder.Start(runtime.GOMAXPROCS(-1))
	return decoder
}

// collectNodes collects coordinates of all nodes in the file
func collectNodes(file *os.File) (map[int64]orb.Point, error) {
	log.Println("First pass: collecting nodes...")
	decoder := newDecoder(file)

	nodes := make(map[int64]orb.Point)
	for {
		obj, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error decoding OSM data: %w", err)
		}

		if node, ok := obj.(*osmpbf.Node); ok {
			nodes[node.ID] = orb.Point{node.Lon, node.Lat}

			if len(nodes)%1000000 == 0 {
				log.Printf("Processed %d nodes...", len(nodes))
			}
		}
	}

	log.Printf("Collected %d nodes", len(nodes))
	return nodes, nil
}

// collectWaysAndRelations collects way node lists and named administrative
// boundary relations of town/city level
func collectWaysAndRelations(file *os.File) (map[int64][]int64, []boundaryRelation, error) {
	log.Println("Second pass: collecting ways and boundary relations...")
	decoder := newDecoder(file)

	ways := make(map[int64][]int64)
	var relations []boundaryRelation

	for {
		obj, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error decoding OSM data: %w", err)
		}

		switch v := obj.(type) {
		case *osmpbf.Way:
			ways[v.ID] = v.NodeIDs
		case *osmpbf.Relation:
			if !isTownBoundary(v.Tags) {
				continue
			}

			rel := boundaryRelation{ID: v.ID, Name: v.Tags["name"]}
			for _, member := range v.Members {
				if member.Type == osmpbf.WayType && member.Role == "outer" {
					rel.OuterWays = append(rel.OuterWays, member.ID)
				}
			}
			if len(rel.OuterWays) > 0 {
				relations = append(relations, rel)
			}
		}
	}

	return ways, relations, nil
}

// isTownBoundary checks for a named administrative boundary of admin level 7 or 8
func isTownBoundary(tags map[string]string) bool {
	if tags["boundary"] != "administrative" || tags["name"] == "" {
		return false
	}
	level := tags["admin_level"]
	return level == "7" || level == "8"
}

// assembleBoundaries runs every relation through the boundary engine and
// builds a GeoJSON feature collection
func assembleBoundaries(relations []boundaryRelation, ways map[int64][]int64, nodes map[int64]orb.Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	skipped := 0

	for _, rel := range relations {
		var chains []orb.LineString
		for _, wayID := range rel.OuterWays {
			chain := resolveWay(ways[wayID], nodes)
			if len(chain) >= 2 {
				chains = append(chains, chain)
			}
		}
		if len(chains) == 0 {
			skipped++
			continue
		}

		ring := boundary.Assemble(chains)
		if len(ring) < boundary.MinBoundaryPoints {
			skipped++
			continue
		}

		ring = boundary.Simplify(ring, boundary.DefaultTargetPoints, boundary.DefaultMinimumPoints)
		center, radius := boundary.CentroidAndRadius(ring)

		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["name"] = rel.Name
		feature.Properties["relation_id"] = rel.ID
		feature.Properties["center_lat"] = center[1]
		feature.Properties["center_lng"] = center[0]
		feature.Properties["radius_m"] = radius
		fc.Append(feature)
	}

	if skipped > 0 {
		log.Printf("Skipped %d relations with insufficient geometry", skipped)
	}
	return fc
}

// resolveWay maps a way's node IDs to coordinates, dropping unknown nodes
func resolveWay(nodeIDs []int64, nodes map[int64]orb.Point) orb.LineString {
	chain := make(orb.LineString, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if point, exists := nodes[id]; exists {
			chain = append(chain, point)
		}
	}
	return chain
}
