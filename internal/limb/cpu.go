package limb

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures describes the processor extensions relevant to multi-word
// arithmetic on the running machine.
type CPUFeatures struct {
	Arch  string
	BMI2  bool // MULX
	ADX   bool // ADCX/ADOX dual carry chains
	AVX2  bool
	ASIMD bool // arm64 Advanced SIMD
}

// features is detected once at package initialization.
var features = CPUFeatures{
	Arch:  runtime.GOARCH,
	BMI2:  cpu.X86.HasBMI2,
	ADX:   cpu.X86.HasADX,
	AVX2:  cpu.X86.HasAVX2,
	ASIMD: cpu.ARM64.HasASIMD,
}

// GetCPUFeatures returns the detected processor features.
func GetCPUFeatures() CPUFeatures {
	return features
}

// String returns a compact description such as "amd64 [BMI2 ADX AVX2]".
func (f CPUFeatures) String() string {
	var tags []string
	if f.BMI2 {
		tags = append(tags, "BMI2")
	}
	if f.ADX {
		tags = append(tags, "ADX")
	}
	if f.AVX2 {
		tags = append(tags, "AVX2")
	}
	if f.ASIMD {
		tags = append(tags, "ASIMD")
	}
	if len(tags) == 0 {
		return f.Arch + " [generic]"
	}
	return f.Arch + " [" + strings.Join(tags, " ") + "]"
}

// Backend names the vector routine implementation compiled into this binary.
func Backend() string {
	return backendName
}
