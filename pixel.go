package qoi

/*

QOI - The “Quite OK Image” format for fast, lossless image compression

Original version by Dominic Szablewski - https://phoboslab.org
Go version by Makapuf makapuf2@gmail.com

-- LICENSE: The MIT License(MIT)

Copyright(c) 2021 Dominic Szablewski

Permission is hereby granted, free of charge, to any person obtaining a copy of
this software and associated documentation files(the "Software"), to deal in
the Software without restriction, including without limitation the rights to
use, copy, modify, merge, publish, distribute, sublicense, and / or sell copies
of the Software, and to permit persons to whom the Software is furnished to do
so, subject to the following conditions :
The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.
THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.

*/

// pixel is a single RGBA sample. The codec's internal representation is
// always 4 channels; channel_count == 3 images carry A == 255 throughout.
type pixel struct {
	r, g, b, a uint8
}

// startPixel is the previous-pixel register's value before the first pixel
// of any encode or decode, regardless of channel_count.
var startPixel = pixel{r: 0, g: 0, b: 0, a: 255}

func (p pixel) equals(o pixel) bool {
	return p.r == o.r && p.g == o.g && p.b == o.b && p.a == o.a
}

// hash computes the running-index slot for p. The multiply-add fits in 16
// bits for 8-bit channels, so it is done in uint16.
func hash(p pixel) uint8 {
	return uint8((uint16(p.r)*3 + uint16(p.g)*5 + uint16(p.b)*7 + uint16(p.a)*11) % 64)
}

// runningIndex is the 64-slot cache of recently seen pixels, keyed by hash.
// Every slot starts at the zero pixel (0,0,0,0); it is never reset mid-codec
// beyond that, and collisions are resolved by last-write-wins.
type runningIndex [64]pixel

func (idx *runningIndex) get(h uint8) pixel {
	return idx[h]
}

func (idx *runningIndex) set(p pixel) {
	idx[hash(p)] = p
}
