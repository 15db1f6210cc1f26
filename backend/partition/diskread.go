package partition

import (
	"fmt"
	"os"
	"sort"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/diskfs/go-diskfs/partition/mbr"
)

// entry describes one partition table entry, translated into a byte
// range on the raw image regardless of which table format produced it.
type entry struct {
	index  int
	name   string
	offset int64
	size   int64
}

// readTable decodes the partition table out of raw, a fully buffered
// disk image. go-diskfs's public API (disk.Open + Disk.GetPartitionTable,
// as used elsewhere in the ecosystem) operates on a path rather than an
// in-memory buffer, so raw is spilled to a temporary file for the
// duration of this call only; none of the returned entries retain a
// reference to it, and partition content is read back out through the
// original parent FileObject via TYPE_DATA_RANGE, not through this
// temporary file.
func readTable(format Format, raw []byte) ([]entry, error) {
	tmp, err := os.CreateTemp("", "vfs-partition-*.img")
	if err != nil {
		return nil, fmt.Errorf("spill image for partition table decode: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("spill image for partition table decode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("spill image for partition table decode: %w", err)
	}

	disk, err := diskfs.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open disk image: %w", err)
	}
	defer disk.Close()

	pt, err := disk.GetPartitionTable()
	if err != nil {
		return nil, fmt.Errorf("get partition table: %w", err)
	}

	blockSize := disk.LogicalBlocksize
	if blockSize <= 0 {
		blockSize = 512
	}

	var entries []entry
	switch t := pt.(type) {
	case *gpt.Table:
		if format != FormatGPT && format != FormatTSK {
			return nil, fmt.Errorf("image carries a GPT table, not %s", format)
		}
		for _, p := range t.Partitions {
			if p.Start == 0 && p.End == 0 {
				continue
			}
			size := int64(p.End-p.Start+1) * blockSize
			entries = append(entries, entry{
				name:   p.Name,
				offset: int64(p.Start) * blockSize,
				size:   size,
			})
		}
	case *mbr.Table:
		if format != FormatMBR && format != FormatTSK {
			return nil, fmt.Errorf("image carries an MBR table, not %s", format)
		}
		for _, p := range t.Partitions {
			if p.Size == 0 {
				continue
			}
			entries = append(entries, entry{
				name:   fmt.Sprintf("0x%02x", p.Type),
				offset: int64(p.Start) * blockSize,
				size:   int64(p.Size) * blockSize,
			})
		}
	default:
		return nil, fmt.Errorf("unsupported partition table type %T", t)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].offset < entries[j].offset })
	for i := range entries {
		entries[i].index = i + 1
	}
	return entries, nil
}
