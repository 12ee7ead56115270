package outputType

import (
	"helix/api/models/constants"
	"strings"
)

const (
	Unknown constants.OutputType = "Unknown"

	RnaSeq          constants.OutputType = "RNA_SEQ"
	Atac            constants.OutputType = "ATAC"
	Dnase           constants.OutputType = "DNASE"
	Cage            constants.OutputType = "CAGE"
	ChipHistone     constants.OutputType = "CHIP_HISTONE"
	ChipTf          constants.OutputType = "CHIP_TF"
	SpliceSites     constants.OutputType = "SPLICE_SITES"
	SpliceJunctions constants.OutputType = "SPLICE_JUNCTIONS"
	ContactMaps     constants.OutputType = "CONTACT_MAPS"
	Procap          constants.OutputType = "PROCAP"
)

func All() []constants.OutputType {
	return []constants.OutputType{
		RnaSeq, Atac, Dnase, Cage,
		ChipHistone, ChipTf,
		SpliceSites, SpliceJunctions,
		ContactMaps, Procap,
	}
}

func CastToOutputType(text string) constants.OutputType {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "rna_seq", "rna-seq", "rnaseq":
		return RnaSeq
	case "atac", "atac_seq", "atac-seq":
		return Atac
	case "dnase":
		return Dnase
	case "cage":
		return Cage
	case "chip_histone", "chip-histone":
		return ChipHistone
	case "chip_tf", "chip-tf":
		return ChipTf
	case "splice_sites", "splice-sites":
		return SpliceSites
	case "splice_junctions", "splice-junctions":
		return SpliceJunctions
	case "contact_maps", "contact-maps", "contact_map":
		return ContactMaps
	case "procap":
		return Procap
	default:
		return Unknown
	}
}

func IsKnownOutputType(text string) bool {
	return CastToOutputType(text) != Unknown
}
