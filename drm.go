package bookparse

import (
	"strings"
)

// encryptionFilePath is the standard path for the encryption descriptor.
const encryptionFilePath = "META-INF/encryption.xml"

// sinfFilePath is the path that indicates Apple FairPlay DRM.
const sinfFilePath = "META-INF/sinf.xml"

// Font obfuscation algorithm URIs – these do NOT constitute DRM.
var fontObfuscationAlgorithms = map[string]bool{
	"http://www.idpf.org/2008/embedding": true, // IDPF font obfuscation
	"http://ns.adobe.com/pdf/enc#RC":     true, // Adobe font obfuscation
}

// checkDRM reports whether the archive is DRM protected. Only
// META-INF/sinf.xml (Apple FairPlay) and EncryptedData entries whose
// algorithm is not a font obfuscation scheme count; Adobe ADEPT and
// Readium LCP both fall in the latter group.
//
// An encryption.xml that cannot be parsed is treated as protection and
// reported together with the parse error.
func checkDRM(a *Archive) (bool, error) {
	if a.findFile(sinfFilePath) != nil {
		return true, nil
	}

	text, ok := a.ReadText(encryptionFilePath)
	if !ok {
		return false, nil
	}

	doc, err := parseXMLTree(text)
	if err != nil {
		return true, err
	}

	for _, ed := range doc.findAll(named("EncryptedData")) {
		method := ed.find(named("EncryptionMethod"))
		if method == nil {
			return true, nil
		}
		if !fontObfuscationAlgorithms[strings.TrimSpace(method.attr("Algorithm"))] {
			return true, nil
		}
	}
	return false, nil
}
