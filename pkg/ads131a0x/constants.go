package ads131a0x

// Constants from the datasheet

// WordSize is the length of one device word in bytes (24-bit word mode).
const WordSize = 3

// Register Addresses
const (
	// RegIDMSB holds the channel count of the part (0x04 or 0x02), read-only.
	RegIDMSB = 0x00
	// RegIDLSB is the revision ID, read-only.
	RegIDLSB = 0x01

	// RegSTAT1 is status register 1
	RegSTAT1 = 0x02
	// RegSTATP is the positive input fault detect status
	RegSTATP = 0x03
	// RegSTATN is the negative input fault detect status
	RegSTATN = 0x04
	// RegSTATS is the SPI status register
	RegSTATS = 0x05
	// RegERRORCNT counts hamming or CRC errors
	RegERRORCNT = 0x06
	// RegSTATM2 is the M2 pin status
	RegSTATM2 = 0x07

	// RegASYSCFG is the analog system configuration register
	RegASYSCFG = 0x0B
	// RegDSYSCFG is the digital system configuration register
	RegDSYSCFG = 0x0C
	// RegCLK1 holds the CLKIN divider (CLK_DIV)
	RegCLK1 = 0x0D
	// RegCLK2 holds the ICLK divider and the oversampling ratio
	RegCLK2 = 0x0E
	// RegADCENA is the ADC channel enable register
	RegADCENA = 0x0F

	// RegADC1 through RegADC4 are the per channel digital gain registers
	RegADC1 = 0x11
	RegADC2 = 0x12
	RegADC3 = 0x13
	RegADC4 = 0x14

	// NumRegisters is the size of the 5-bit register address space.
	NumRegisters = 0x20

	// MaxAddress is the highest address a register command can carry.
	MaxAddress = NumRegisters - 1
)

// Register command masks, OR'd with a 5-bit register address.
const (
	CMDRREG  = 0x20 // 001a aaaa 0000 0000
	CMDRREGS = 0x20 // 001a aaaa nnnn nnnn, reads n+1 registers
	CMDWREG  = 0x40 // 010a aaaa dddd dddd
	CMDWREGS = 0x60 // 011a aaaa nnnn nnnn, writes n+1 registers

	// RREGSDefaultCount is the count byte the multi register read uses when none is given.
	RREGSDefaultCount = 0xFF

	addrMask = 0x1F
)

// Status words the device answers a command with once it has settled.
const (
	AckUnlock  uint16 = 0x0655
	AckLock    uint16 = 0x0555
	AckWakeup  uint16 = 0x0033
	AckStandby uint16 = 0x0022

	// ReadyA04 and ReadyA02 are returned after power-up or RESET.
	ReadyA04 uint16 = 0xFF04
	ReadyA02 uint16 = 0xFF02
)

// Default register values written by Initialize and Start.
//
// fCLKIN = 16.384MHz, CLK_DIV = 2 => fICLK = 8.192MHz,
// ICLK_DIV = 4 => fMOD = 2.048MHz, OSR = 4096 => 500 SPS.
const (
	DefaultCLK1    = 0x02 // CLK_DIV = 2
	DefaultCLK2    = 0x40 // ICLK_DIV = 4, OSR = 4096
	DefaultASYSCFG = ASysCfgVNCPEN | ASysCfgHRM | ASysCfgReserved // external 2.5V reference
	ADCENAAll      = 0x0F
	ADCENANone     = 0x00

	// DefaultDataRate is the output data rate, in samples per second, of the defaults above.
	DefaultDataRate = 500
)

// Conversion constants for an external 2.5V reference.
const (
	FullScale   = 8388608.0 // 2^23
	DefaultVRef = 2.5

	MaxCode = 1<<23 - 1
	MinCode = -1 << 23
)

// Bits for A_SYS_CFG
const (
	ASysCfgVNCPEN   = 0x80 // negative charge pump enable
	ASysCfgHRM      = 0x40 // high resolution mode
	ASysCfgReserved = 0x20 // always written as 1
	ASysCfgVREF4V   = 0x10 // internal reference 4.0V instead of 2.442V
	ASysCfgINTREFEN = 0x08 // internal reference enable
)

// Internal reference voltages selected by ASysCfgVREF4V.
const (
	InternalVRef2V442 = 2.442
	InternalVRef4V    = 4.0
)
