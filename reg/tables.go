package reg

// defs returns the static DW1000 register table (DW1000 User Manual v2.11). Field
// order is little-endian starting at bit 0; reserved (gap) fields are named with an
// "X" prefix.
func defs() []Def {
	return []Def{
		{"DEV_ID", 0x00, NoSub, 4, []FieldDef{
			{"REV", 4}, {"VER", 4}, {"MODEL", 8}, {"RIDTAG", 16},
		}},
		{"EUI", 0x01, NoSub, 8, nil},
		{"PANADR", 0x03, NoSub, 4, []FieldDef{
			{"SHORT_ADDR", 16}, {"PAN_ID", 16},
		}},
		{"SYS_CFG", 0x04, NoSub, 4, []FieldDef{
			{"FFEN", 1}, {"FFBC", 1}, {"FFAB", 1}, {"FFAD", 1}, {"FFAA", 1}, {"FFAM", 1},
			{"FFAR", 1}, {"FFA4", 1}, {"FFA5", 1}, {"HIRQ_POL", 1}, {"SPI_EDGE", 1},
			{"DIS_FCE", 1}, {"DIS_DRXB", 1}, {"DIS_PHE", 1}, {"DIS_RSDE", 1},
			{"FCS_INIT2F", 1}, {"PHR_MODE", 2}, {"DIS_STXP", 1}, {"X1", 3}, {"RXM110K", 1},
			{"X2", 5}, {"RXWTOE", 1}, {"RXAUTR", 1}, {"AUTOACK", 1}, {"AACKPEND", 1},
		}},
		{"SYS_TIME", 0x06, NoSub, 5, nil},
		{"TX_FCTRL", 0x08, NoSub, 5, []FieldDef{
			{"TFLEN", 7}, {"TFLE", 3}, {"R", 3}, {"TXBR", 2}, {"TR", 1}, {"TXPRF", 2},
			{"TXPSR", 2}, {"PE", 2}, {"TXBOFFS", 10}, {"IFSDELAY", 8},
		}},
		{"TX_BUFFER", 0x09, NoSub, 1, nil},
		{"DX_TIME", 0x0a, NoSub, 5, nil},
		{"RX_FWTO", 0x0c, NoSub, 5, nil},
		{"SYS_CTRL", 0x0d, NoSub, 4, []FieldDef{
			{"SFCST", 1}, {"TXSTRT", 1}, {"TXDLYS", 1}, {"CANSFCS", 1}, {"X1", 2},
			{"TRXOFF", 1}, {"WAIT4RESP", 1}, {"RXENAB", 1}, {"RXDLYE", 1}, {"X2", 14},
			{"HRBPT", 1}, {"X3", 7},
		}},
		{"SYS_MASK", 0x0e, NoSub, 4, []FieldDef{
			{"X1", 1}, {"MCPLOCK", 1}, {"MESYNCR", 1}, {"MAAT", 1}, {"MTXFRB", 1},
			{"MTXPRS", 1}, {"MTXPHS", 1}, {"MTXFRS", 1}, {"MRXPRD", 1}, {"MRXSFDD", 1},
			{"MLDEDON", 1}, {"MRXPHD", 1}, {"MRXPHE", 1}, {"MRXDFR", 1}, {"MRXFCG", 1},
			{"MRXFCE", 1}, {"MRXRFSL", 1}, {"MRXRFTO", 1}, {"MLDEERR", 1}, {"X2", 1},
			{"MRXOVRR", 1}, {"MRXPTO", 1}, {"MGPIOIRQ", 1}, {"MSLP2INIT", 1},
			{"MRFPLLLL", 1}, {"MCPLLLL", 1}, {"MRXSFDTO", 1}, {"MHPDWAR", 1},
			{"MTXBERR", 1}, {"MAFFREJ", 1}, {"X3", 2},
		}},
		{"SYS_STATUS", 0x0f, NoSub, 5, []FieldDef{
			{"IRQS", 1}, {"CPLOCK", 1}, {"ESYNCR", 1}, {"AAT", 1}, {"TXFRB", 1},
			{"TXPRS", 1}, {"TXPHS", 1}, {"TXFRS", 1}, {"RXPRD", 1}, {"RXSFDD", 1},
			{"LDEDONE", 1}, {"RXPHD", 1}, {"RXPHE", 1}, {"RXDFR", 1}, {"RXFCG", 1},
			{"RXFCE", 1}, {"RXRFSL", 1}, {"RXRFTO", 1}, {"LDEERR", 1}, {"X1", 1},
			{"RXOVRR", 1}, {"RXPTO", 1}, {"GPIOIRQ", 1}, {"SLP2INIT", 1},
			{"RFPLL_LL", 1}, {"CLKPLL_LL", 1}, {"RXSFDTO", 1}, {"HPDWARN", 1},
			{"TXBERR", 1}, {"AFFREJ", 1}, {"HSRBP", 1}, {"ICRBP", 1}, {"RXRSCS", 1},
			{"RXPREJ", 1}, {"TXPUTE", 1}, {"X2", 5},
		}},
		{"RX_FINFO", 0x10, NoSub, 4, []FieldDef{
			{"RXFLEN", 7}, {"RXFLE", 3}, {"X1", 1}, {"RXNSPL", 2}, {"RXBR", 2},
			{"RNG", 1}, {"RXPRFR", 2}, {"RXPSR", 2}, {"RXPACC", 12},
		}},
		{"RX_BUFFER", 0x11, NoSub, 1, nil},
		{"RX_FQUAL", 0x12, NoSub, 8, []FieldDef{
			{"STD_NOISE", 16}, {"FP_AMPL2", 16}, {"PP_AMPL3", 16}, {"CIR_PWR", 16},
		}},
		{"RX_TTCKI", 0x13, NoSub, 4, nil},
		{"RX_TTCKO", 0x14, NoSub, 5, []FieldDef{
			{"RXTOFS", 19}, {"X1", 5}, {"RSMPDEL", 8}, {"RCPHASE", 7}, {"X2", 1},
		}},
		{"RX_TIME1", 0x15, 0x00, 7, []FieldDef{
			{"RX_STAMP", 40}, {"FP_INDEX", 16},
		}},
		{"RX_TIME2", 0x15, 0x07, 7, []FieldDef{
			{"FP_AMPL1", 16}, {"RX_RAWST", 40},
		}},
		{"TX_TIME1", 0x17, 0x00, 5, []FieldDef{
			{"TX_STAMP", 40},
		}},
		{"TX_TIME2", 0x17, 0x05, 5, []FieldDef{
			{"TX_RAWST", 40},
		}},
		{"TX_ANTD", 0x18, NoSub, 2, nil},
		{"ACK_RESP_T", 0x1a, NoSub, 4, []FieldDef{
			{"W4R_TIM", 20}, {"X1", 4}, {"ACK_TIM", 8},
		}},
		{"RX_SNIFF", 0x1d, NoSub, 4, []FieldDef{
			{"SNIFF_ONT", 4}, {"X1", 4}, {"SNIFF_OFFT", 8}, {"X2", 16},
		}},
		{"TX_POWER", 0x1e, NoSub, 4, []FieldDef{
			{"BOOSTNORM", 8}, {"BOOSTP500", 8}, {"BOOSTP250", 8}, {"BOOSTP125", 8},
		}},
		{"CHAN_CTRL", 0x1f, NoSub, 4, []FieldDef{
			{"TX_CHAN", 4}, {"RX_CHAN", 4}, {"X1", 9}, {"DWSFD", 1}, {"RXPRF", 2},
			{"TNSSFD", 1}, {"RNSSFD", 1}, {"TX_PCODE", 5}, {"RX_PCODE", 5},
		}},
		{"SFD_LENGTH", 0x21, 0x00, 2, nil},
		{"AGC_CTRL1", 0x23, 0x02, 2, []FieldDef{
			{"DIS_AM", 1}, {"X1", 15},
		}},
		{"AGC_TUNE1", 0x23, 0x04, 2, nil},
		{"AGC_TUNE2", 0x23, 0x0c, 4, nil},
		{"AGC_TUNE3", 0x23, 0x12, 2, nil},
		{"AGC_STAT1", 0x23, 0x1e, 3, []FieldDef{
			{"X1", 6}, {"EDG1", 5}, {"EDV2", 9}, {"X2", 4},
		}},
		{"EC_CTRL", 0x24, 0x00, 4, []FieldDef{
			{"OSTSM", 1}, {"OSRSM", 1}, {"PLLLDT", 1}, {"WAIT", 8}, {"OSTRM", 1}, {"X1", 20},
		}},
		{"EC_RXTC", 0x24, 0x04, 4, []FieldDef{
			{"RX_TS_EST", 32},
		}},
		{"EC_GOLP", 0x24, 0x08, 4, []FieldDef{
			{"OFFSET_EXT", 6}, {"X1", 26},
		}},
		{"ACC_MEM", 0x25, NoSub, 4064, nil},
		{"GPIO_MODE", 0x26, 0x00, 4, []FieldDef{
			{"X1", 6}, {"MSGP0", 2}, {"MSGP1", 2}, {"MSGP2", 2}, {"MSGP3", 2},
			{"MSGP4", 2}, {"MSGP5", 2}, {"MSGP6", 2}, {"MSGP7", 2}, {"MSGP8", 2}, {"X2", 8},
		}},
		{"GPIO_DIR", 0x26, 0x08, 4, []FieldDef{
			{"GDP0", 1}, {"GDP1", 1}, {"GDP2", 1}, {"GDP3", 1}, {"GDM0", 1}, {"GDM1", 1},
			{"GDM2", 1}, {"GDM3", 1}, {"GDP4", 1}, {"GDP5", 1}, {"GDP6", 1}, {"GDP7", 1},
			{"GDM4", 1}, {"GDM5", 1}, {"GDM6", 1}, {"GDM7", 1}, {"GDP8", 1}, {"X1", 3},
			{"GDM8", 1}, {"X2", 11},
		}},
		{"GPIO_DOUT", 0x26, 0x0c, 4, []FieldDef{
			{"GOP0", 1}, {"GOP1", 1}, {"GOP2", 1}, {"GOP3", 1}, {"GOM0", 1}, {"GOM1", 1},
			{"GOM2", 1}, {"GOM3", 1}, {"GOP4", 1}, {"GOP5", 1}, {"GOP6", 1}, {"GOP7", 1},
			{"GOM4", 1}, {"GOM5", 1}, {"GOM6", 1}, {"GOM7", 1}, {"GOP8", 1}, {"X1", 3},
			{"GOM8", 1}, {"X2", 11},
		}},
		{"GPIO_IRQE", 0x26, 0x10, 4, []FieldDef{
			{"GIRQE0", 1}, {"GIRQE1", 1}, {"GIRQE2", 1}, {"GIRQE3", 1}, {"GIRQE4", 1},
			{"GIRQE5", 1}, {"GIRQE6", 1}, {"GIRQE7", 1}, {"GIRQE8", 1}, {"X1", 23},
		}},
		{"GPIO_ISEN", 0x26, 0x14, 4, []FieldDef{
			{"GISEN0", 1}, {"GISEN1", 1}, {"GISEN2", 1}, {"GISEN3", 1}, {"GISEN4", 1},
			{"GISEN5", 1}, {"GISEN6", 1}, {"GISEN7", 1}, {"GISEN8", 1}, {"X1", 23},
		}},
		{"GPIO_IMODE", 0x26, 0x18, 4, []FieldDef{
			{"GIMOD0", 1}, {"GIMOD1", 1}, {"GIMOD2", 1}, {"GIMOD3", 1}, {"GIMOD4", 1},
			{"GIMOD5", 1}, {"GIMOD6", 1}, {"GIMOD7", 1}, {"GIMOD8", 1}, {"X1", 23},
		}},
		{"GPIO_IBES", 0x26, 0x1c, 4, []FieldDef{
			{"GIBES0", 1}, {"GIBES1", 1}, {"GIBES2", 1}, {"GIBES3", 1}, {"GIBES4", 1},
			{"GIBES5", 1}, {"GIBES6", 1}, {"GIBES7", 1}, {"GIBES8", 1}, {"X1", 23},
		}},
		{"GPIO_ICLR", 0x26, 0x20, 4, []FieldDef{
			{"GICLR0", 1}, {"GICLR1", 1}, {"GICLR2", 1}, {"GICLR3", 1}, {"GICLR4", 1},
			{"GICLR5", 1}, {"GICLR6", 1}, {"GICLR7", 1}, {"GICLR8", 1}, {"X1", 23},
		}},
		{"GPIO_IDBE", 0x26, 0x24, 4, []FieldDef{
			{"GIDBE0", 1}, {"GIDBE1", 1}, {"GIDBE2", 1}, {"GIDBE3", 1}, {"GIDBE4", 1},
			{"GIDBE5", 1}, {"GIDBE6", 1}, {"GIDBE7", 1}, {"GIDBE8", 1}, {"X1", 23},
		}},
		{"GPIO_RAW", 0x26, 0x28, 4, []FieldDef{
			{"GRAWP0", 1}, {"GRAWP1", 1}, {"GRAWP2", 1}, {"GRAWP3", 1}, {"GRAWP4", 1},
			{"GRAWP5", 1}, {"GRAWP6", 1}, {"GRAWP7", 1}, {"GRAWP8", 1}, {"X1", 23},
		}},
		{"DRX_TUNE0b", 0x27, 0x02, 2, nil},
		{"DRX_TUNE1a", 0x27, 0x04, 2, nil},
		{"DRX_TUNE1b", 0x27, 0x06, 2, nil},
		{"DRX_TUNE2", 0x27, 0x08, 4, nil},
		{"DRX_SFDTOC", 0x27, 0x20, 2, nil},
		{"DRX_PRETOC", 0x27, 0x24, 2, nil},
		{"DRX_TUNE4H", 0x27, 0x26, 2, nil},
		{"DRX_CAR_INT", 0x27, 0x28, 2, nil},
		{"RXPACC_NOSAT", 0x27, 0x2c, 2, nil},
		{"RF_CONF", 0x28, 0x00, 4, []FieldDef{
			{"X1", 8}, {"TXFEN", 5}, {"PLLFEN", 3}, {"LDOFEN", 5}, {"TXRXSW", 2}, {"X2", 9},
		}},
		{"RF_RXCTRLH", 0x28, 0x0b, 1, nil},
		{"RF_TXCTRL", 0x28, 0x0c, 3, nil},
		{"RF_STATUS", 0x28, 0x2c, 4, []FieldDef{
			{"CPLLLOCK", 1}, {"CPLLLOW", 1}, {"CPLLHIGH", 1}, {"RFPLLLOCK", 1}, {"X1", 28},
		}},
		{"LDOTUNE", 0x28, 0x30, 5, nil},
		{"TC_SARC", 0x2a, 0x00, 2, []FieldDef{
			{"SAR_CTRL", 1}, {"X1", 15},
		}},
		{"TC_SARL", 0x2a, 0x03, 3, []FieldDef{
			{"SAR_LVBAT", 8}, {"SAR_LTEMP", 8}, {"X1", 8},
		}},
		{"TC_SARW", 0x2a, 0x06, 2, []FieldDef{
			{"SAR_WBAT", 8}, {"SAR_WTEMP", 8},
		}},
		{"TC_PG_CTRL", 0x2a, 0x08, 4, []FieldDef{
			{"PG_START", 1}, {"X1", 1}, {"PG_TMEAS", 3}, {"X2", 27},
		}},
		{"TC_PG_STATUS", 0x2a, 0x09, 4, []FieldDef{
			{"PG_DELAY_CNT", 12}, {"X1", 20},
		}},
		{"TC_PGDELAY", 0x2a, 0x0b, 1, nil},
		{"TC_PGTEST", 0x2a, 0x0c, 1, nil},
		{"FS_PLLCFG", 0x2b, 0x07, 4, nil},
		{"FS_PLLTUNE", 0x2b, 0x0b, 1, nil},
		{"FS_XTALT", 0x2b, 0x0e, 1, nil},
		{"AON_WCFG", 0x2c, 0x00, 2, []FieldDef{
			{"ONV_RAD", 1}, {"ONW_RX", 1}, {"X1", 1}, {"ONW_LEUI", 1}, {"X2", 2},
			{"ONW_LDC", 1}, {"ONW_L64", 1}, {"PRES_SLEE", 1}, {"X3", 2}, {"ONW_LLDE", 1},
			{"ONW_LLD", 1}, {"X4", 3},
		}},
		{"AON_CTRL", 0x2c, 0x02, 1, []FieldDef{
			{"RESTORE", 1}, {"SAVE", 1}, {"UPL_CFG", 1}, {"DCA_READ", 1}, {"X1", 3},
			{"DCA_ENAB", 1},
		}},
		{"AON_RDAT", 0x2c, 0x03, 1, nil},
		{"AON_ADDR", 0x2c, 0x04, 1, nil},
		{"AON_CFG0", 0x2c, 0x06, 4, []FieldDef{
			{"SLEEP_EN", 1}, {"WAKE_PIN", 1}, {"WAKE_SPI", 1}, {"WAKE_CNT", 1},
			{"LPDIV_EN", 1}, {"LPCLKDIVA", 11}, {"SLEEP_TIM", 16},
		}},
		{"AON_CFG1", 0x2c, 0x0a, 2, []FieldDef{
			{"SLEEP_CE", 1}, {"SMXX", 1}, {"LPOSC_C", 1}, {"X1", 13},
		}},
		{"OTP_WDAT", 0x2d, 0x00, 4, nil},
		{"OTP_ADDR", 0x2d, 0x04, 2, []FieldDef{
			{"OTP_ADDR", 11}, {"X1", 5},
		}},
		{"OTP_CTRL", 0x2d, 0x06, 2, []FieldDef{
			{"OTPRDEN", 1}, {"OTPREAD", 1}, {"X1", 1}, {"OTPMRWR", 1}, {"X2", 2},
			{"OTPPROG", 1}, {"OTPMR", 4}, {"X3", 4}, {"LDELOAD", 1},
		}},
		{"OTP_STATUS", 0x2d, 0x08, 2, []FieldDef{
			{"OTPPRGD", 1}, {"OTPVPOK", 1}, {"X1", 14},
		}},
		{"OTP_RDAT", 0x2d, 0x0a, 4, nil},
		{"OTP_SRDAT", 0x2d, 0x0e, 4, nil},
		{"OTP_SF", 0x2d, 0x12, 1, []FieldDef{
			{"OPS_KICK", 1}, {"LDO_KICK", 1}, {"X1", 3}, {"OPS_SEL", 2}, {"X2", 1},
		}},
		{"LDE_CFG1", 0x2e, 0x0806, 1, []FieldDef{
			{"NTM", 5}, {"PMULT", 3},
		}},
		{"LDE_PPINDX", 0x2e, 0x1000, 2, nil},
		{"LDE_PPAMPL", 0x2e, 0x1002, 2, nil},
		{"LDE_RXANTD", 0x2e, 0x1804, 2, nil},
		{"LDE_CFG2", 0x2e, 0x1806, 2, nil},
		{"LDE_REPC", 0x2e, 0x2804, 2, nil},
		{"EVC_CTRL", 0x2f, 0x00, 4, []FieldDef{
			{"EVC_EN", 1}, {"EVC_CLR", 1}, {"X1", 30},
		}},
		{"EVC_PHE", 0x2f, 0x04, 2, []FieldDef{{"EVC_PHE", 12}, {"X1", 4}}},
		{"EVC_RSE", 0x2f, 0x06, 2, []FieldDef{{"EVC_RSE", 12}, {"X1", 4}}},
		{"EVC_FCG", 0x2f, 0x08, 2, []FieldDef{{"EVC_FCG", 12}, {"X1", 4}}},
		{"EVC_FCE", 0x2f, 0x0a, 2, []FieldDef{{"EVC_FCE", 12}, {"X1", 4}}},
		{"EVC_FFR", 0x2f, 0x0c, 2, []FieldDef{{"EVC_FFR", 12}, {"X1", 4}}},
		{"EVC_OVR", 0x2f, 0x0e, 2, []FieldDef{{"EVC_OVR", 12}, {"X1", 4}}},
		{"EVC_STO", 0x2f, 0x10, 2, []FieldDef{{"EVC_STO", 12}, {"X1", 4}}},
		{"EVC_PTO", 0x2f, 0x12, 2, []FieldDef{{"EVC_PTO", 12}, {"X1", 4}}},
		{"EVC_FWTO", 0x2f, 0x14, 2, []FieldDef{{"EVC_FWTO", 12}, {"X1", 4}}},
		{"EVC_TXFS", 0x2f, 0x16, 2, []FieldDef{{"EVC_TXFS", 12}, {"X1", 4}}},
		{"EVC_HPW", 0x2f, 0x18, 2, []FieldDef{{"EVC_HPW", 12}, {"X1", 4}}},
		{"EVC_TPW", 0x2f, 0x1a, 2, []FieldDef{{"EVC_TPW", 12}, {"X1", 4}}},
		{"DIAG_TMC", 0x2f, 0x24, 2, []FieldDef{
			{"X1", 4}, {"TX_PSTM", 1}, {"X2", 11},
		}},
		{"PMSC_CTRL0", 0x36, 0x00, 4, []FieldDef{
			{"SYSCLKS", 2}, {"RXCLKS", 2}, {"TXCLKS", 2}, {"FACE", 1}, {"X1", 3},
			{"ADCCE", 1}, {"X2", 4}, {"AMCE", 1}, {"GPCE", 1}, {"GPRN", 1}, {"GPDCE", 1},
			{"GPDRN", 1}, {"X3", 3}, {"KHZCLKEN", 1}, {"X4", 4}, {"SOFTRESET", 4},
		}},
		{"PMSC_CTRL1", 0x36, 0x04, 4, []FieldDef{
			{"X1", 1}, {"ARX2INIT", 1}, {"X2", 1}, {"PKTSEQ", 8}, {"ATXSLP", 1},
			{"ARXSLP", 1}, {"SNOZE", 1}, {"SNOZR", 1}, {"PLLSYN", 1}, {"X3", 1},
			{"LDERUNE", 1}, {"X4", 8}, {"KHZCLKDIV", 6},
		}},
		{"PMSC_SNOZT", 0x36, 0x0c, 1, nil},
		{"PMSC_TXFSEQ", 0x36, 0x26, 2, nil},
		{"PMSC_LEDC", 0x36, 0x28, 4, []FieldDef{
			{"BLINK_TIM", 8}, {"BLINKEN", 1}, {"X1", 7}, {"BLNKNOW", 4}, {"X2", 12},
		}},
	}
}

// ---- Parametric calibration tables from the DW1000 user manual. Must not be altered. ----

// ChanRfTxctrl maps channel -> RF_TXCTRL value (table 38).
var ChanRfTxctrl = map[int]uint32{1: 0x5c40, 2: 0x45ca0, 3: 0x86cc0, 4: 0x45c80, 5: 0x1e3fe0, 7: 0x1e7de0}

// ChanTcPgdelay maps channel -> TC_PGDELAY value (table 40).
var ChanTcPgdelay = map[int]uint32{1: 0xc9, 2: 0xc2, 3: 0xc5, 4: 0x95, 5: 0xc0, 7: 0x93}

// ChanFsPlltune maps channel -> FS_PLLTUNE value (table 44).
var ChanFsPlltune = map[int]uint32{1: 0x1e, 2: 0x26, 3: 0x56, 4: 0x26, 5: 0xbe, 7: 0xbe}

// TrxRates maps the data rate in kbps -> TXBR/RXM110K encoding.
var TrxRates = map[int]uint32{110: 0, 850: 1, 6800: 2}

// PulseFreqs maps PRF in MHz -> TXPRF/RXPRF encoding.
var PulseFreqs = map[int]uint32{16: 1, 64: 2}

// PreamLenPe maps preamble length -> TX_FCTRL.PE encoding.
var PreamLenPe = map[int]uint32{64: 0, 128: 1, 256: 2, 512: 3, 1024: 0, 1536: 1, 2048: 2, 4096: 0}

// PreamLenPsr maps preamble length -> TX_FCTRL.TXPSR encoding.
var PreamLenPsr = map[int]uint32{64: 1, 128: 1, 256: 1, 512: 1, 1024: 2, 1536: 2, 2048: 2, 4096: 3}

// PreamCodes maps channel -> (code for PRF16, code for PRF64).
var PreamCodes = map[int][2]int{
	1: {1, 9}, 2: {3, 9}, 3: {5, 9}, 4: {7, 17}, 5: {3, 9}, 7: {7, 17},
}

// PacSizes maps preamble length -> PAC accumulator size.
var PacSizes = map[int]int{64: 8, 128: 8, 256: 16, 512: 16, 1024: 32, 2048: 64, 4096: 64}

// FsPllcfgs maps channel -> FS_PLLCFG value.
var FsPllcfgs = map[int]uint32{
	1: 0x09000407, 2: 0x08400508, 3: 0x08401009, 4: 0x08400508, 5: 0x0800041D, 7: 0x0800041D,
}

// DrxTune2s maps PAC size -> (DRX_TUNE2 for PRF16, DRX_TUNE2 for PRF64).
var DrxTune2s = map[int][2]uint32{
	8:  {0x311A002D, 0x313B006B},
	16: {0x331A0052, 0x333B00BE},
	32: {0x351A009A, 0x353B015E},
	64: {0x371A011D, 0x373B0296},
}

// PcodeRepcs maps preamble code (1..24) -> LDE_REPC value.
var PcodeRepcs = map[int]uint32{
	1: 0x5998, 13: 0x3AE0, 2: 0x5998, 14: 0x35C2, 3: 0x51EA, 15: 0x2B84,
	4: 0x428E, 16: 0x35C2, 5: 0x451E, 17: 0x3332, 6: 0x2E14, 18: 0x35C2,
	7: 0x8000, 19: 0x35C2, 8: 0x51EA, 20: 0x47AE, 9: 0x28F4, 21: 0x3AE0,
	10: 0x3332, 22: 0x3850, 11: 0x3AE0, 23: 0x30A2, 12: 0x3D70, 24: 0x3850,
}

// TxPwrsSmart maps channel -> (TX_POWER for PRF16, TX_POWER for PRF64), smart-tx-power policy.
var TxPwrsSmart = map[int][2]uint32{
	1: {0x15355575, 0x07274767}, 2: {0x15355575, 0x07274767},
	3: {0x0F2F4F6F, 0x2B4B6B8B}, 4: {0x1F1F3F5F, 0x3A5A7A9A},
	5: {0x0E082848, 0x25456585}, 7: {0x32527292, 0x5171B1D1},
}

// TxPwrsDumb maps channel -> (TX_POWER for PRF16, TX_POWER for PRF64), non-smart (dumb) policy.
var TxPwrsDumb = map[int][2]uint32{
	1: {0x75757575, 0x67676767}, 2: {0x75757575, 0x67676767},
	3: {0x6F6F6F6F, 0x8B8B8B8B}, 4: {0x5F5F5F5F, 0x9A9A9A9A},
	5: {0x48484848, 0x85858585}, 7: {0x92929292, 0xD1D1D1D1},
}

// SysMaskVal enables RXPHE, RXFCG, RXFCE, RXRFSL, RXRFTO, RXSFDTO, AFFREJ.
const SysMaskVal uint32 = 0x2403D000
