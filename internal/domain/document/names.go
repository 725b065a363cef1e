package document

import "fmt"

func DeviceSheetName(jobCardID uint) string {
	return fmt.Sprintf("jobcard-%d-device.pdf", jobCardID)
}

func InvoiceName(jobCardID uint) string {
	return fmt.Sprintf("jobcard-%d-invoice.pdf", jobCardID)
}
