// Package enum implements the Omron-specific enumeration engine: paging
// through the Get_All_Instances service (0x5F) across the System and User
// tag-type namespaces using a server-supplied continuation cursor, then
// resolving each collected name's type descriptor via taginfo.
package enum

import (
	"encoding/binary"

	"github.com/omrontag/tagscan/cip"
	"github.com/omrontag/tagscan/scanerr"
	"github.com/omrontag/tagscan/taginfo"
	"github.com/omrontag/tagscan/wire"
)

// TagType selects which namespace Get_All_Instances enumerates.
type TagType uint16

const (
	System TagType = 1
	User   TagType = 2
)

// instanceData is the transient record decoded from one Get_All_Instances
// response entry.
type instanceData struct {
	id   uint32
	name string
}

// classSymbolTablePath is the fixed logical path to class 0x6A, instance 0
// (6 bytes: 0x20 0x6A 0x25 0x00 0x00 0x00), used by both the count request
// and every Get_All_Instances page request.
var classSymbolTablePath = mustBuildClassSymbolTablePath()

func mustBuildClassSymbolTablePath() cip.EPath_t {
	path, err := cip.EPath().Class(cip.ClassSymbolTable).Instance16(0).Build()
	if err != nil {
		panic("enum: failed to build class symbol table path: " + err.Error())
	}
	return path
}

// GetVariableCount issues Get_Attribute_All against class 0x6A instance 0
// and returns the authoritative total variable count N from the response
// payload (2 reserved bytes, then a little-endian uint16 count).
func GetVariableCount(r taginfo.Requester) (uint16, error) {
	resp, err := r.Request(cip.SvcGetAttributeAll, classSymbolTablePath, nil)
	if err != nil {
		return 0, err
	}
	d := wire.NewDecoder(resp.Data, binary.LittleEndian)
	d.Advance(2) // reserved
	count := d.ReadUint16()
	if d.Err() != nil {
		return 0, &scanerr.DecodeError{Record: "symbol table count", Reason: d.Err().Error()}
	}
	return count, nil
}

// GetNames pages through Get_All_Instances for one tag type namespace,
// collecting every instance's name in the order returned by the
// controller. next_instance_id starts at 1 and advances to the last
// returned instance id + 1; a server that fails to advance it would loop
// forever, so this guards against non-monotonic cursors by aborting with a
// DecodeError.
func GetNames(r taginfo.Requester, tagType TagType) ([]string, error) {
	var names []string
	nextInstanceID := uint32(1)

	for {
		reqData := make([]byte, 10)
		binary.LittleEndian.PutUint32(reqData[0:4], nextInstanceID)
		reqData[4], reqData[5], reqData[6], reqData[7] = 0x20, 0x00, 0x00, 0x00
		binary.LittleEndian.PutUint16(reqData[8:10], uint16(tagType))

		resp, err := r.Request(cip.SvcOmronGetAllInstances, classSymbolTablePath, reqData)
		if err != nil {
			return nil, err
		}

		d := wire.NewDecoder(resp.Data, binary.LittleEndian)
		numInstances := d.ReadUint16()
		d.Advance(2) // reserved

		if d.Err() != nil {
			return nil, &scanerr.DecodeError{Record: "get_all_instances page header", Reason: d.Err().Error()}
		}
		if numInstances == 0 {
			break
		}

		var lastID uint32
		for i := uint16(0); i < numInstances; i++ {
			inst, err := decodeInstanceData(d)
			if err != nil {
				return nil, err
			}
			names = append(names, inst.name)
			lastID = inst.id
		}
		if d.Err() != nil {
			return nil, &scanerr.DecodeError{Record: "get_all_instances page body", Reason: d.Err().Error()}
		}

		newNext := lastID + 1
		if newNext <= nextInstanceID {
			return nil, &scanerr.DecodeError{
				Record: "get_all_instances cursor",
				Reason: "next_instance_id failed to advance, would loop forever",
			}
		}
		nextInstanceID = newNext
	}

	return names, nil
}

// decodeInstanceData decodes one InstanceData record: id, entry_len, class
// (discarded), instance id repeated (discarded), name_len, name, then
// trailing padding computed from entry_len.
func decodeInstanceData(d *wire.Decoder) (instanceData, error) {
	id := d.ReadUint32()
	entryLen := d.ReadUint16()
	d.Advance(2) // class, observed 0x6B
	d.Advance(4) // instance id repeated
	nameLen := d.ReadUint8()

	nameBytes := make([]byte, nameLen)
	d.Read(nameBytes)

	if d.Err() != nil {
		return instanceData{}, &scanerr.DecodeError{Record: "instance=" + itoa(id), Reason: d.Err().Error()}
	}

	padding := int(entryLen) - 2 - 4 - 1 - int(nameLen)
	if padding < 0 {
		return instanceData{}, &scanerr.DecodeError{
			Record: "instance=" + itoa(id),
			Reason: "entry_len shorter than fixed fields plus name",
		}
	}
	d.Advance(padding)

	return instanceData{id: id, name: string(nameBytes)}, nil
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// GetVariables drives the full enumeration: count, then names across
// System then User namespaces, then resolves each name's type descriptor.
// Names are resolved in system_names ++ user_names order, truncated to the
// authoritative count N. If fewer names are returned than N, this aborts
// with a DecodeError naming the shortfall rather than guessing.
func GetVariables(r taginfo.Requester, warn taginfo.Warner) ([]taginfo.VariableInfo, error) {
	n, err := GetVariableCount(r)
	if err != nil {
		return nil, err
	}

	systemNames, err := GetNames(r, System)
	if err != nil {
		return nil, err
	}
	userNames, err := GetNames(r, User)
	if err != nil {
		return nil, err
	}
	names := append(systemNames, userNames...)

	if len(names) > int(n) {
		if warn != nil {
			warn.Warnf("enum: controller returned %d names but count was %d, truncating", len(names), n)
		}
		names = names[:n]
	} else if len(names) < int(n) {
		return nil, &scanerr.DecodeError{
			Record: "enumeration",
			Reason: "fewer names returned than the authoritative count",
		}
	}

	vars := make([]taginfo.VariableInfo, 0, len(names))
	for _, name := range names {
		v, err := taginfo.GetVariableInfo(r, name, warn)
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	return vars, nil
}
