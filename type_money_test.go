package navtrack

import "testing"

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
		err  bool
	}{
		{in: "103.3017", want: M(103.3017, "INR")},
		{in: "1,234.5678", want: M(1234.5678, "INR")},
		{in: "-50", want: M(-50, "INR")},
		{in: "0", want: M(0, "INR")},
		{in: "N.A.", err: true},
		{in: "", err: true},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.in, "INR")
		if tt.err {
			if err == nil {
				t.Errorf("ParseMoney(%q) error = nil, want an error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMoney(%q) error = %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseMoney(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMoney_arithmetic(t *testing.T) {
	price := M(80, "INR")
	amount := M(8000, "INR")

	units := amount.DivPrice(price)
	if !units.Equal(Q(100)) {
		t.Errorf("8000/80 = %v units, want 100", units)
	}
	if back := price.Mul(units); !back.Equal(amount) {
		t.Errorf("80*100 = %v, want %v", back, amount)
	}
	if got := amount.Sub(price); !got.Equal(M(7920, "INR")) {
		t.Errorf("8000-80 = %v", got)
	}
}

func TestMoney_signedString(t *testing.T) {
	if got := M(1, "INR").SignedString(); got[0] != '+' {
		t.Errorf("SignedString() = %q, want a leading +", got)
	}
	if got := M(-1, "INR").SignedString(); got[0] != '-' {
		t.Errorf("SignedString() = %q, want a leading -", got)
	}
}

func TestPercent_strings(t *testing.T) {
	if got := Percent(25).String(); got != "25.00%" {
		t.Errorf("String() = %q, want 25.00%%", got)
	}
	if got := Percent(9.5445).SignedString(); got != "+9.54%" {
		t.Errorf("SignedString() = %q, want +9.54%%", got)
	}
	if !Percent(9.54451).Equal(Percent(9.54449)) {
		t.Error("percents within the display precision compare equal")
	}
}
