package protocol

import "fmt"

// ImuType identifies the physical sensor a tracker reports with, so that the
// host can interpret and calibrate per device type. Values outside the known
// set are carried through as-is and rendered as unknown.
type ImuType uint8

const (
	ImuTypeMpu9250  ImuType = 1
	ImuTypeMpu6500  ImuType = 2
	ImuTypeBno080   ImuType = 3
	ImuTypeBno085   ImuType = 4
	ImuTypeBno055   ImuType = 5
	ImuTypeMpu6050  ImuType = 6
	ImuTypeBmi160   ImuType = 8
	ImuTypeIcm20948 ImuType = 9

	// ImuTypeUnknown is the sentinel code the stub driver reports.
	ImuTypeUnknown ImuType = 0xFF
)

func (t ImuType) String() string {
	switch t {
	case ImuTypeMpu9250:
		return "MPU-9250"
	case ImuTypeMpu6500:
		return "MPU-6500"
	case ImuTypeBno080:
		return "BNO080"
	case ImuTypeBno085:
		return "BNO085"
	case ImuTypeBno055:
		return "BNO055"
	case ImuTypeMpu6050:
		return "MPU-6050"
	case ImuTypeBmi160:
		return "BMI160"
	case ImuTypeIcm20948:
		return "ICM-20948"
	}
	return fmt.Sprintf("unknown(0x%02X)", uint8(t))
}
