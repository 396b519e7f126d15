package lifecycle

// StageCount is the number of stages every order passes through.
const StageCount = 8

// Stage is the static metadata of one lifecycle step.
type Stage struct {
	Index             int
	Status            Status
	Label             string
	Description       string
	EstimatedDuration string
	// Notice is shown to the customer while the stage is current.
	Notice string
}

var stages = [StageCount]Stage{
	{
		Index:             0,
		Status:            StatusPaymentPending,
		Label:             "Menunggu Pembayaran",
		Description:       "Pesanan Anda sudah tercatat, tunggu konfirmasi pembayaran.",
		EstimatedDuration: "-",
		Notice:            "Selesaikan pembayaran dan unggah bukti transfer agar pesanan dapat diproses.",
	},
	{
		Index:             1,
		Status:            StatusPaymentVerified,
		Label:             "Pembayaran Terverifikasi",
		Description:       "Admin telah memverifikasi bukti pembayaran Anda.",
		EstimatedDuration: "Instant",
		Notice:            "Pembayaran Anda sudah kami terima. Barang akan segera disiapkan.",
	},
	{
		Index:             2,
		Status:            StatusBeingPrepared,
		Label:             "Barang Disiapkan",
		Description:       "Admin sedang menyiapkan dan mengecek kondisi barang.",
		EstimatedDuration: "1-2 hari",
		Notice:            "Barang sedang dicek kelengkapan dan kondisinya sebelum dikirim.",
	},
	{
		Index:             3,
		Status:            StatusShipped,
		Label:             "Barang Dikirim",
		Description:       "Barang sedang dalam perjalanan menuju alamat Anda.",
		EstimatedDuration: "1-3 hari",
		Notice:            "Anda sedang menunggu pengiriman barang. Barang akan tiba dalam estimasi 1-3 hari kerja. Hubungi admin jika ada pertanyaan.",
	},
	{
		Index:             4,
		Status:            StatusReceived,
		Label:             "Barang Diterima",
		Description:       "Barang telah tiba di lokasi Anda.",
		EstimatedDuration: "Otomatis",
		Notice:            "Cek kondisi dan kelengkapan barang, lalu laporkan kekurangan ke admin.",
	},
	{
		Index:             5,
		Status:            StatusInUse,
		Label:             "Dalam Penggunaan",
		Description:       "Anda sedang menggunakan barang yang disewa.",
		EstimatedDuration: "Sesuai durasi",
		Notice:            "Selamat berkemah! Kembalikan barang sesuai tanggal yang telah ditentukan.",
	},
	{
		Index:             6,
		Status:            StatusReturned,
		Label:             "Barang Dikembalikan",
		Description:       "Barang telah dikembalikan ke penyewa.",
		EstimatedDuration: "1-2 hari",
		Notice:            "Barang sudah kami terima kembali dan sedang dicek oleh admin.",
	},
	{
		Index:             7,
		Status:            StatusCompleted,
		Label:             "Proses Selesai",
		Description:       "Admin telah menerima dan mengecek barang yang dikembalikan.",
		EstimatedDuration: "1 hari",
		Notice:            "Pesanan selesai. Terima kasih telah menyewa di Rentcamp.",
	},
}

// Stages returns a copy of the ordered stage table.
func Stages() []Stage {
	out := make([]Stage, StageCount)
	copy(out, stages[:])
	return out
}

// StageAt returns the stage metadata at index i.
func StageAt(i int) (Stage, bool) {
	if i < 0 || i >= StageCount {
		return Stage{}, false
	}
	return stages[i], true
}
