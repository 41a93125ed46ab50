/*
 * MIT License
 *
 * Copyright (c) 2024 pixelserv-tls contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package logging

import "testing"

func TestParseLevel(t *testing.T) {
	if l, ok := ParseLevel(5); !ok || l != Debug {
		t.Fatalf("got %v/%v, want Debug/true", l, ok)
	}
	if _, ok := ParseLevel(6); ok {
		t.Fatal("6 should be rejected")
	}
	if _, ok := ParseLevel(-1); ok {
		t.Fatal("-1 should be rejected")
	}
}

func TestParseLevelName(t *testing.T) {
	if l, ok := ParseLevelName("DEBUG"); !ok || l != Debug {
		t.Fatalf("got %v/%v, want Debug/true", l, ok)
	}
	if _, ok := ParseLevelName("verbose"); ok {
		t.Fatal("unknown name should be rejected")
	}
}

func TestSetLevelRoundTrip(t *testing.T) {
	defer SetLevel(Info)

	SetLevel(Warning)
	if CurrentLevel() != Warning {
		t.Fatalf("got %v, want Warning", CurrentLevel())
	}
}
