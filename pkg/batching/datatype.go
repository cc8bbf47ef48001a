package batching

import (
	"fmt"
	"strings"
)

// DataType is a tensor element type as named in model configurations, without the
// "TYPE_" prefix.
type DataType string

const (
	TypeInvalid DataType = "INVALID"
	TypeBool    DataType = "BOOL"
	TypeUint8   DataType = "UINT8"
	TypeUint16  DataType = "UINT16"
	TypeUint32  DataType = "UINT32"
	TypeUint64  DataType = "UINT64"
	TypeInt8    DataType = "INT8"
	TypeInt16   DataType = "INT16"
	TypeInt32   DataType = "INT32"
	TypeInt64   DataType = "INT64"
	TypeFP16    DataType = "FP16"
	TypeFP32    DataType = "FP32"
	TypeFP64    DataType = "FP64"
	TypeString  DataType = "STRING"
	TypeBF16    DataType = "BF16"
)

var dataTypeSizes = map[DataType]int{
	TypeBool:   1,
	TypeUint8:  1,
	TypeUint16: 2,
	TypeUint32: 4,
	TypeUint64: 8,
	TypeInt8:   1,
	TypeInt16:  2,
	TypeInt32:  4,
	TypeInt64:  8,
	TypeFP16:   2,
	TypeFP32:   4,
	TypeFP64:   8,
	TypeString: 0,
	TypeBF16:   2,
}

// ParseDataType accepts both "TYPE_FP32" and "FP32".
func ParseDataType(s string) (DataType, error) {
	dt := DataType(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "TYPE_"))
	if _, ok := dataTypeSizes[dt]; !ok {
		return TypeInvalid, fmt.Errorf("unknown data type %q", s)
	}
	return dt, nil
}

// ByteSize returns the size of one element, or 0 for variable-size types.
func (d DataType) ByteSize() int {
	return dataTypeSizes[d]
}

func (d DataType) String() string {
	return string(d)
}
