//go:build windows

package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modsetupapi = windows.NewLazySystemDLL("setupapi.dll")
	modhid      = windows.NewLazySystemDLL("hid.dll")

	procSetupDiGetClassDevsW          = modsetupapi.NewProc("SetupDiGetClassDevsW")
	procSetupDiEnumDeviceInterfaces   = modsetupapi.NewProc("SetupDiEnumDeviceInterfaces")
	procSetupDiGetDeviceInterfaceDetailW = modsetupapi.NewProc("SetupDiGetDeviceInterfaceDetailW")
	procSetupDiDestroyDeviceInfoList = modsetupapi.NewProc("SetupDiDestroyDeviceInfoList")

	procHidDGetHidGuid          = modhid.NewProc("HidD_GetHidGuid")
	procHidDGetAttributes       = modhid.NewProc("HidD_GetAttributes")
	procHidDGetProductString    = modhid.NewProc("HidD_GetProductString")
	procHidDGetPreparsedData    = modhid.NewProc("HidD_GetPreparsedData")
	procHidDFreePreparsedData   = modhid.NewProc("HidD_FreePreparsedData")
	procHidDSetOutputReport     = modhid.NewProc("HidD_SetOutputReport")
	procHidPGetCaps             = modhid.NewProc("HidP_GetCaps")
	procHidPGetButtonCaps       = modhid.NewProc("HidP_GetButtonCaps")
	procHidPGetValueCaps        = modhid.NewProc("HidP_GetValueCaps")
	procHidPGetUsages           = modhid.NewProc("HidP_GetUsages")
	procHidPGetUsageValue       = modhid.NewProc("HidP_GetUsageValue")
)

const (
	digcfPresent         = 0x00000002
	digcfDeviceInterface = 0x00000010

	hidpStatusSuccess = 0x00110000

	hidpInput = 0
)

// GUIDHID returns the device interface class GUID for HID devices.
func GUIDHID() windows.GUID {
	var g windows.GUID
	procHidDGetHidGuid.Call(uintptrPtr(&g))
	return g
}

type spDeviceInterfaceData struct {
	cbSize             uint32
	interfaceClassGUID windows.GUID
	flags              uint32
	reserved           uintptr
}

// EnumerateHIDPaths returns the device path of every present HID interface.
func EnumerateHIDPaths() ([]string, error) {
	guid := GUIDHID()

	h, _, _ := procSetupDiGetClassDevsW.Call(
		uintptrPtr(&guid),
		0,
		0,
		uintptr(digcfPresent|digcfDeviceInterface),
	)
	if windows.Handle(h) == windows.InvalidHandle {
		return nil, windows.GetLastError()
	}
	defer procSetupDiDestroyDeviceInfoList.Call(h)

	var paths []string
	for idx := uint32(0); ; idx++ {
		var ifData spDeviceInterfaceData
		ifData.cbSize = uint32(unsafe.Sizeof(ifData))

		ret, _, _ := procSetupDiEnumDeviceInterfaces.Call(
			h, 0, uintptrPtr(&guid), uintptr(idx), uintptrPtr(&ifData),
		)
		if ret == 0 {
			break
		}

		path, err := deviceInterfaceDetail(h, &ifData)
		if err != nil {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func deviceInterfaceDetail(infoSet uintptr, ifData *spDeviceInterfaceData) (string, error) {
	var requiredSize uint32
	procSetupDiGetDeviceInterfaceDetailW.Call(
		infoSet, uintptrPtr(ifData), 0, 0, uintptrPtr(&requiredSize), 0,
	)
	if requiredSize == 0 {
		return "", windows.ERROR_INSUFFICIENT_BUFFER
	}

	// SP_DEVICE_INTERFACE_DETAIL_DATA_W is { DWORD cbSize; WCHAR DevicePath[ANYSIZE_ARRAY]; }.
	buf := make([]byte, requiredSize)
	*(*uint32)(unsafe.Pointer(&buf[0])) = 8 // sizeof(DWORD)+sizeof(WCHAR) on the common x64 layout

	ret, _, err := procSetupDiGetDeviceInterfaceDetailW.Call(
		infoSet, uintptrPtr(ifData), uintptr(unsafe.Pointer(&buf[0])), uintptr(requiredSize), uintptrPtr(&requiredSize), 0,
	)
	if ret == 0 {
		return "", err
	}

	pathStart := (*uint16)(unsafe.Pointer(&buf[4]))
	pathLen := (int(requiredSize) - 4) / 2
	slice := unsafe.Slice(pathStart, pathLen)
	return windows.UTF16ToString(slice), nil
}

// HIDAttributes holds a device's VID/PID/version as returned by
// HidD_GetAttributes.
type HIDAttributes struct {
	VendorID      uint16
	ProductID     uint16
	VersionNumber uint16
}

type hiddAttributes struct {
	size          uint32
	vendorID      uint16
	productID     uint16
	versionNumber uint16
}

// OpenHandle opens a HID device path for overlapped read/write access, or
// (if enumerate is true) for attribute/capability queries only.
func OpenHandle(path string, enumerate bool) (windows.Handle, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.InvalidHandle, err
	}

	access := uint32(windows.GENERIC_READ | windows.GENERIC_WRITE)
	if enumerate {
		access = 0
	}

	h, err := windows.CreateFile(
		p, access, windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE, nil,
		windows.OPEN_EXISTING, windows.FILE_FLAG_OVERLAPPED, 0,
	)
	if err != nil {
		return windows.InvalidHandle, err
	}
	return h, nil
}

// GetAttributes reads a device's VID/PID/version.
func GetAttributes(h windows.Handle) HIDAttributes {
	var attrs hiddAttributes
	attrs.size = uint32(unsafe.Sizeof(attrs))
	procHidDGetAttributes.Call(uintptr(h), uintptrPtr(&attrs))
	return HIDAttributes{VendorID: attrs.vendorID, ProductID: attrs.productID, VersionNumber: attrs.versionNumber}
}

// GetProductString reads the device's product-name string.
func GetProductString(h windows.Handle) string {
	const bufLen = 256
	buf := make([]uint16, bufLen)
	procHidDGetProductString.Call(uintptr(h), uintptrPtr(&buf[0]), uintptr(bufLen*2))
	return windows.UTF16ToString(buf)
}

// PreparsedData is an opaque handle to a device's parsed report descriptor.
type PreparsedData uintptr

// GetPreparsedData fetches the preparsed report descriptor for a handle.
// The caller must call FreePreparsedData when done.
func GetPreparsedData(h windows.Handle) (PreparsedData, error) {
	var pd PreparsedData
	ret, _, _ := procHidDGetPreparsedData.Call(uintptr(h), uintptrPtr(&pd))
	if ret == 0 {
		return 0, windows.GetLastError()
	}
	return pd, nil
}

// FreePreparsedData releases a preparsed descriptor obtained from
// GetPreparsedData.
func FreePreparsedData(pd PreparsedData) {
	procHidDFreePreparsedData.Call(uintptr(pd))
}

type hidpCaps struct {
	usage                     uint16
	usagePage                 uint16
	inputReportByteLength     uint16
	outputReportByteLength    uint16
	featureReportByteLength   uint16
	reserved                  [17]uint16
	numberLinkCollectionNodes uint16
	numberInputButtonCaps     uint16
	numberInputValueCaps      uint16
	numberInputDataIndices    uint16
	numberOutputButtonCaps    uint16
	numberOutputValueCaps     uint16
	numberOutputDataIndices   uint16
	numberFeatureButtonCaps   uint16
	numberFeatureValueCaps    uint16
	numberFeatureDataIndices  uint16
}

// Caps summarizes a preparsed descriptor's top-level capabilities.
type Caps struct {
	UsagePage             uint16
	Usage                 uint16
	InputReportByteLength uint16
	NumButtonCaps         uint16
	NumValueCaps          uint16
}

// GetCaps reads the top-level capability summary from a preparsed
// descriptor.
func GetCaps(pd PreparsedData) (Caps, error) {
	var c hidpCaps
	ret, _, _ := procHidPGetCaps.Call(uintptr(pd), uintptrPtr(&c))
	if ret != hidpStatusSuccess {
		return Caps{}, windows.GetLastError()
	}
	return Caps{
		UsagePage:             c.usagePage,
		Usage:                 c.usage,
		InputReportByteLength: c.inputReportByteLength,
		NumButtonCaps:         c.numberInputButtonCaps,
		NumValueCaps:          c.numberInputValueCaps,
	}, nil
}

// hidpButtonCaps mirrors the real HIDP_BUTTON_CAPS ABI layout: 16 bytes of
// scalar fields, a 40-byte Reserved[10] ULONG block, and the 16-byte
// Range/NotRange union (only the union's leading USAGE, common to both
// variants, is read). Total size must stay 72 bytes, since
// HidP_GetButtonCaps writes that many bytes per entry regardless of how
// this struct is declared.
type hidpButtonCaps struct {
	usagePage         uint16
	reportID          byte
	isAlias           byte
	bitField          uint16
	linkCollection    uint16
	linkUsage         uint16
	linkUsagePage     uint16
	isRange           byte
	isStringRange     byte
	isDesignatorRange byte
	isAbsolute        byte
	reserved          [10]uint32
	usageOrMin        uint16
	_                 [14]byte // remaining union bytes, unused here
}

// GetButtonCaps reads the button capability list for the input report.
func GetButtonCaps(pd PreparsedData, count uint16) []uint16 {
	if count == 0 {
		return nil
	}
	buf := make([]hidpButtonCaps, count)
	n := count
	ret, _, _ := procHidPGetButtonCaps.Call(hidpInput, uintptr(unsafe.Pointer(&buf[0])), uintptrPtr(&n), uintptr(pd))
	if ret != hidpStatusSuccess {
		return nil
	}
	usages := make([]uint16, 0, n)
	for i := uint16(0); i < n; i++ {
		usages = append(usages, buf[i].usageOrMin)
	}
	return usages
}

// hidpValueCaps mirrors the real HIDP_VALUE_CAPS ABI layout, 72 bytes total
// (see hidpButtonCaps): the same 16-byte scalar prefix, the HasNull/Reserved/
// BitSize/ReportCount/Reserved2 block, UnitsExp/Units, the four logical/
// physical range fields, and the trailing 16-byte Range/NotRange union.
type hidpValueCaps struct {
	usagePage         uint16
	reportID          byte
	isAlias           byte
	bitField          uint16
	linkCollection    uint16
	linkUsage         uint16
	linkUsagePage     uint16
	isRange           byte
	isStringRange     byte
	isDesignatorRange byte
	isAbsolute        byte
	hasNull           byte
	_                 byte
	bitSize           uint16
	reportCount       uint16
	_                 [5]uint16
	unitsExp          uint32
	units             uint32
	logicalMin        int32
	logicalMax        int32
	physicalMin       int32
	physicalMax       int32
	usageOrMin        uint16
	_                 [14]byte // remaining union bytes, unused here
}

// GetValueCaps reads the axis capability list for the input report.
func GetValueCaps(pd PreparsedData, count uint16) []struct {
	Usage      uint16
	LogicalMin int32
	LogicalMax int32
} {
	if count == 0 {
		return nil
	}
	buf := make([]hidpValueCaps, count)
	n := count
	ret, _, _ := procHidPGetValueCaps.Call(hidpInput, uintptr(unsafe.Pointer(&buf[0])), uintptrPtr(&n), uintptr(pd))
	if ret != hidpStatusSuccess {
		return nil
	}
	out := make([]struct {
		Usage      uint16
		LogicalMin int32
		LogicalMax int32
	}, 0, n)
	for i := uint16(0); i < n; i++ {
		out = append(out, struct {
			Usage      uint16
			LogicalMin int32
			LogicalMax int32
		}{buf[i].usageOrMin, buf[i].logicalMin, buf[i].logicalMax})
	}
	return out
}

// GetUsages returns every button usage asserted in a report for a given
// usage page.
func GetUsages(pd PreparsedData, usagePage uint16, report []byte) []uint16 {
	var count uint32 = 64 // HidP_GetUsages takes a ULONG length
	buf := make([]uint16, count)
	ret, _, _ := procHidPGetUsages.Call(
		hidpInput, uintptr(usagePage), 0, uintptr(unsafe.Pointer(&buf[0])), uintptrPtr(&count),
		uintptr(pd), uintptr(unsafe.Pointer(&report[0])), uintptr(len(report)),
	)
	if ret != hidpStatusSuccess {
		return nil
	}
	return buf[:count]
}

// GetUsageValue returns the raw logical value of one axis usage in a
// report.
func GetUsageValue(pd PreparsedData, usagePage, usage uint16, report []byte) (uint32, bool) {
	var value uint32
	ret, _, _ := procHidPGetUsageValue.Call(
		hidpInput, uintptr(usagePage), 0, uintptr(usage), uintptrPtr(&value),
		uintptr(pd), uintptr(unsafe.Pointer(&report[0])), uintptr(len(report)),
	)
	return value, ret == hidpStatusSuccess
}

// SetOutputReport writes an output report (e.g. rumble command) to a HID
// device synchronously.
func SetOutputReport(h windows.Handle, report []byte) error {
	ret, _, err := procHidDSetOutputReport.Call(uintptr(h), uintptr(unsafe.Pointer(&report[0])), uintptr(len(report)))
	if ret == 0 {
		return err
	}
	return nil
}
