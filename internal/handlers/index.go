package handlers

import "net/http"

// Index serves GET /, a small page to ask the oracle directly.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(indexPageHTML))
}

const indexPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Oracle</title>
  <style>
    * { box-sizing: border-box; }
    body { font-family: system-ui, sans-serif; max-width: 560px; margin: 2rem auto; padding: 0 1rem; }
    h1 { font-size: 1.5rem; margin-bottom: 0.5rem; }
    label { display: block; margin-bottom: 0.25rem; font-weight: 500; }
    input, textarea { width: 100%; padding: 0.5rem; margin-bottom: 0.75rem; border: 1px solid #ccc; border-radius: 4px; }
    textarea { min-height: 80px; resize: vertical; }
    button { padding: 0.5rem 1rem; background: #333; color: #fff; border: none; border-radius: 4px; cursor: pointer; }
    button:disabled { opacity: 0.6; cursor: not-allowed; }
    .result { margin-top: 1rem; padding: 0.75rem; background: #f5f5f5; border-radius: 4px; white-space: pre-wrap; }
    .result.error { background: #fee; color: #c00; }
    .result img { max-width: 100%; height: auto; border-radius: 4px; margin-top: 0.75rem; }
  </style>
</head>
<body>
  <h1>Oracle</h1>
  <p>Ask, and receive a vision.</p>

  <form id="ask-form">
    <label for="api-key">API key</label>
    <input type="password" id="api-key" autocomplete="off" data-1p-ignore>
    <label for="query">Your question</label>
    <textarea id="query" placeholder="I seek a vision for my future."></textarea>
    <button type="submit" id="ask-btn">Ask the oracle</button>
  </form>

  <div id="result" class="result" style="display:none"></div>

  <script>
    const form = document.getElementById('ask-form');
    const btn = document.getElementById('ask-btn');
    const result = document.getElementById('result');

    form.addEventListener('submit', async (e) => {
      e.preventDefault();
      btn.disabled = true;
      result.style.display = 'block';
      result.className = 'result';
      result.textContent = 'The oracle is thinking...';
      try {
        const res = await fetch('/v1/visions', {
          method: 'POST',
          headers: {
            'Content-Type': 'application/json',
            'Authorization': 'Bearer ' + document.getElementById('api-key').value,
          },
          body: JSON.stringify({ query: document.getElementById('query').value }),
        });
        const data = await res.json();
        if (!res.ok) throw new Error(data.error || res.statusText);
        result.textContent = data.vision_text;
        if (data.image_url) {
          const img = document.createElement('img');
          img.src = data.image_url;
          img.alt = 'vision';
          result.appendChild(img);
        }
      } catch (err) {
        result.className = 'result error';
        result.textContent = err.message;
      } finally {
        btn.disabled = false;
      }
    });
  </script>
</body>
</html>
`
